package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
)

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the aries service",
	Long: `Restart the aries systemd service. The restarted service goes
through the launcher again, so a config file added or removed since the
last start changes which launch form aries gets.

This command must be run as root:
  sudo ariesctl restart`,
	RunE: runRestart,
}

func runRestart(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("'ariesctl restart' is not supported on %s", runtime.GOOS)
	}

	if os.Getuid() != 0 {
		return fmt.Errorf("'ariesctl restart' requires root (try: sudo ariesctl restart)")
	}

	if _, err := os.Stat(systemdServicePath); os.IsNotExist(err) {
		return fmt.Errorf("systemd service not installed; run 'sudo ariesctl install' first")
	}

	// Check if the service is active.
	check := exec.Command("systemctl", "is-active", "--quiet", serviceName)
	if err := check.Run(); err != nil {
		return fmt.Errorf("aries service is not running; use 'sudo systemctl start %s' to start it", serviceName)
	}

	fmt.Fprintln(os.Stderr, "Restarting aries service...")

	restart := exec.Command("systemctl", "restart", serviceName)
	restart.Stdout = os.Stderr
	restart.Stderr = os.Stderr
	if err := restart.Run(); err != nil {
		return fmt.Errorf("systemctl restart %s: %w", serviceName, err)
	}

	fmt.Fprintln(os.Stderr, "aries restarted.")
	fmt.Fprintln(os.Stderr, "Use 'ariesctl status' to check service state.")

	return nil
}
