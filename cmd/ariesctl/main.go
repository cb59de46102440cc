// Command ariesctl is the operator tool around the aries entrypoint.
// It can perform the launch itself, verify that a host satisfies the
// launch contract, scaffold the starter config, and manage the systemd
// unit that runs the entrypoint on non-container hosts.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=...".
// GoReleaser sets this automatically from the git tag.
var version = "dev"

// Global flags shared across subcommands.
var (
	globalVerbose bool
	globalLogger  *slog.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "ariesctl",
	Short: "Operate the aries entrypoint",
	Long: `ariesctl wraps the aries entrypoint contract for operators: launch
aries in the foreground, check that a host can launch it, scaffold the
starter config, and install the entrypoint as a systemd service.

The contract itself is fixed: MEGA_BASE_DIR=/opt/mega, a config probe
at /opt/mega/etc/config.toml, and a process-image handoff to
/usr/local/bin/aries.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if globalVerbose {
			level = slog.LevelDebug
		}
		globalLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd prints the build version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ariesctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
