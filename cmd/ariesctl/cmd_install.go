package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
)

const (
	serviceName        = "aries"
	systemdServicePath = "/etc/systemd/system/aries.service"
	launcherBinaryName = "aries-launcher"
	ctlBinaryName      = "ariesctl"
)

var (
	installPrefix string
	installEnable bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the launcher and systemd service",
	Long: `Copy aries-launcher and ariesctl to a system path and write a
systemd unit that starts aries through the launcher.

This command must be run as root:
  sudo ariesctl install

What it does:
  1. Copies ariesctl and aries-launcher to /usr/local/bin (or --prefix)
  2. Writes ` + systemdServicePath + `
  3. Optionally enables and starts the service (--enable)

The aries binary itself is not installed here; 'ariesctl doctor'
reports whether it is in place.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installPrefix, "prefix", "/usr/local", "installation prefix (binaries go to <prefix>/bin/)")
	installCmd.Flags().BoolVar(&installEnable, "enable", false, "enable and start the service after installing")
}

func runInstall(cmd *cobra.Command, args []string) error {
	if runtime.GOOS != "linux" {
		return fmt.Errorf("install is only supported on Linux")
	}

	if os.Getuid() != 0 {
		return fmt.Errorf("install must be run as root (try: sudo ariesctl install)")
	}

	// Resolve the current binary path.
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding current binary: %w", err)
	}
	self, err = filepath.EvalSymlinks(self)
	if err != nil {
		return fmt.Errorf("resolving binary path: %w", err)
	}

	// The launcher ships next to ariesctl in release archives.
	launcherSrc := filepath.Join(filepath.Dir(self), launcherBinaryName)
	if _, err := os.Stat(launcherSrc); err != nil {
		return fmt.Errorf("%s not found next to %s (both binaries ship in the release archive)", launcherBinaryName, self)
	}

	destDir := filepath.Join(installPrefix, "bin")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", destDir, err)
	}

	launcherDest := filepath.Join(destDir, launcherBinaryName)
	if err := installBinary(launcherSrc, launcherDest); err != nil {
		return err
	}
	if err := installBinary(self, filepath.Join(destDir, ctlBinaryName)); err != nil {
		return err
	}

	if err := installSystemdService(launcherDest); err != nil {
		return err
	}

	if installEnable {
		fmt.Fprintf(os.Stderr, "Enabling and starting %s...\n", serviceName)
		enable := exec.Command("systemctl", "enable", "--now", serviceName)
		enable.Stdout = os.Stderr
		enable.Stderr = os.Stderr
		if err := enable.Run(); err != nil {
			return fmt.Errorf("systemctl enable --now %s: %w", serviceName, err)
		}
	}

	fmt.Fprintf(os.Stderr, "\nInstallation complete.\n")
	fmt.Fprintf(os.Stderr, "Run 'ariesctl doctor' to verify the launch contract.\n")
	if !installEnable {
		fmt.Fprintf(os.Stderr, "To enable the service: sudo systemctl enable --now %s\n", serviceName)
	}

	return nil
}

// installBinary copies src to dest via a temp file and rename. This avoids
// "text file busy" errors when the destination binary is currently running.
func installBinary(src, dest string) error {
	if src == dest {
		fmt.Fprintf(os.Stderr, "Binary already at %s, skipping copy.\n", dest)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Copying %s -> %s\n", src, dest)
	tmpPath := dest + ".tmp"
	if err := copyFile(src, tmpPath); err != nil {
		return fmt.Errorf("copying binary: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("installing binary: %w", err)
	}

	return nil
}

// copyFile copies a file, creating the destination with 0755.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Close()
}

// installSystemdService writes the systemd unit for aries. The launcher
// replaces itself with aries, so the unit's main PID is aries itself and
// systemd's restart policy applies to the service, not the launcher.
func installSystemdService(launcherPath string) error {
	serviceContent := fmt.Sprintf(`[Unit]
Description=aries - mega repository service
Documentation=https://github.com/web3infra-foundation/aries-launcher
After=network-online.target
Wants=network-online.target

[Service]
Type=simple
# The launcher sets MEGA_BASE_DIR, probes the config file, and execs aries.
ExecStart=%s
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`, launcherPath)

	fmt.Fprintf(os.Stderr, "Installing systemd service to %s\n", systemdServicePath)

	if err := os.WriteFile(systemdServicePath, []byte(serviceContent), 0644); err != nil {
		return fmt.Errorf("writing service file: %w", err)
	}

	// Reload systemd.
	reload := exec.Command("systemctl", "daemon-reload")
	reload.Stdout = os.Stderr
	reload.Stderr = os.Stderr
	if err := reload.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: systemctl daemon-reload failed: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "  systemd service installed\n")

	return nil
}
