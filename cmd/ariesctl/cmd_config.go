package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the config file path and state",
	Long: `Print the config file path the entrypoint probes.

  ariesctl config       Print the config path and whether it exists
  ariesctl config show  Print the config file contents
  ariesctl config edit  Open the config file in $EDITOR
  ariesctl config path  Print the config directory path`,
	RunE: runConfig,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file contents",
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	RunE:  runConfigEdit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config directory path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfgPath := launch.ConfigPath(launch.BaseDir)

	fmt.Fprintf(os.Stdout, "Config: %s\n", cfgPath)

	info, err := os.Stat(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stdout, "  absent (aries starts with built-in defaults; run 'ariesctl init' to create it)\n")
		return nil
	}
	fmt.Fprintf(os.Stdout, "  %s  %s\n", info.Mode().Perm(), cfgPath)

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfgPath := launch.ConfigPath(launch.BaseDir)

	f, err := os.Open(cfgPath)
	if err != nil {
		return fmt.Errorf("no config file at %s (run 'ariesctl init' to create one)", cfgPath)
	}
	defer f.Close()

	if _, err := io.Copy(os.Stdout, f); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		// Try common editors.
		for _, e := range []string{"nano", "vim", "vi"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found — set $EDITOR")
	}

	c := exec.Command(editor, launch.ConfigPath(launch.BaseDir))
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr

	if err := c.Run(); err != nil {
		return fmt.Errorf("editor exited: %w", err)
	}

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(filepath.Dir(launch.ConfigPath(launch.BaseDir)))
	return nil
}
