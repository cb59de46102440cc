package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the launcher from this system",
	Long: `Stop the aries service, remove the systemd unit, and optionally
remove the installed binaries.

The aries binary and ` + launch.BaseDir + ` are left in place.

This command must be run as root:
  sudo ariesctl uninstall`,
	RunE: runUninstall,
}

func runUninstall(cmd *cobra.Command, args []string) error {
	if os.Getuid() != 0 {
		return fmt.Errorf("uninstall must be run as root (try: sudo ariesctl uninstall)")
	}

	scanner := bufio.NewScanner(os.Stdin)

	// Stop and remove the systemd unit.
	if runtime.GOOS == "linux" {
		if _, err := os.Stat(systemdServicePath); err == nil {
			fmt.Fprintln(os.Stderr, "Stopping and removing systemd service...")

			_ = exec.Command("systemctl", "disable", "--now", serviceName).Run()

			if err := os.Remove(systemdServicePath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", systemdServicePath, err)
			}

			_ = exec.Command("systemctl", "daemon-reload").Run()

			fmt.Fprintln(os.Stderr, "  systemd service removed")
		}
	}

	// Remove binaries.
	self, err := os.Executable()
	if err == nil {
		launcherPath := filepath.Join(filepath.Dir(self), launcherBinaryName)
		for _, p := range []string{launcherPath, self} {
			if _, err := os.Stat(p); err != nil {
				continue
			}
			if promptYesNo(scanner, "Remove binary ("+p+")?", false) {
				if err := os.Remove(p); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not remove %s: %v\n", p, err)
				} else {
					fmt.Fprintf(os.Stderr, "  Binary removed: %s\n", p)
				}
			}
		}
	}

	fmt.Fprintln(os.Stderr, "\naries-launcher has been uninstalled.")

	return nil
}
