package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show launcher and service status",
	Long:  `Display the launch contract as it stands on this host: the target binary, the base directory, which launch form the config probe would select, and the systemd service state.`,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	configFile := launch.ConfigPath(launch.BaseDir)

	fmt.Fprintf(os.Stdout, "%s    %s\n", styleKey.Render("Version:"), version)
	fmt.Fprintf(os.Stdout, "%s     %s (%s)\n", styleKey.Render("Target:"), launch.TargetPath, targetState(launch.TargetPath))
	fmt.Fprintf(os.Stdout, "%s   %s (%s)\n", styleKey.Render("Base dir:"), launch.BaseDir, baseDirState(launch.BaseDir))
	fmt.Fprintf(os.Stdout, "%s     %s (%s)\n", styleKey.Render("Config:"), configFile, configState(configFile))
	if runtime.GOOS == "linux" {
		fmt.Fprintf(os.Stdout, "%s    %s\n", styleKey.Render("Service:"), renderServiceState(systemdState()))
	}

	return nil
}

func targetState(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "not installed"
	}
	return fmt.Sprintf("installed, mode %s", info.Mode().Perm())
}

func baseDirState(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	if !info.IsDir() {
		return "not a directory"
	}
	return "exists"
}

// configState mirrors the launcher's probe: only a regular file makes
// aries start with -c.
func configState(path string) string {
	info, err := os.Stat(path)
	if err == nil && info.Mode().IsRegular() {
		return "present, aries starts with -c"
	}
	return "absent, aries starts with built-in defaults"
}

func systemdState() string {
	if _, err := os.Stat(systemdServicePath); err != nil {
		return "not installed"
	}
	// is-active exits non-zero for inactive/failed units; the output
	// still names the state, so ignore the error.
	out, _ := exec.Command("systemctl", "is-active", serviceName).Output()
	state := strings.TrimSpace(string(out))
	if state == "" {
		return "unknown"
	}
	return state
}

func renderServiceState(state string) string {
	switch state {
	case "active":
		return styleActive.Render(state)
	case "inactive", "failed":
		return styleMissing.Render(state)
	default:
		return state
	}
}
