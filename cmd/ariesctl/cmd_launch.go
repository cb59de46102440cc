package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Launch aries in the foreground",
	Long: `Perform the entrypoint launch: export MEGA_BASE_DIR, probe
/opt/mega/etc/config.toml, and replace this process with
/usr/local/bin/aries (-c <config> when the file is present).

ariesctl does not survive a successful launch; aries takes over the
terminal and the process ID. Nothing from this invocation is forwarded
to aries.`,
	RunE: runLaunch,
}

func runLaunch(cmd *cobra.Command, args []string) error {
	l := launch.New()
	globalLogger.Debug("launching", "target", l.TargetPath, "base_dir", l.BaseDir)

	// Replace the current process so aries owns the terminal and PID.
	err := l.Run()
	if err == nil {
		return nil
	}

	// The child-process fallback carries the target's own exit status;
	// mirror it here too so launching through ariesctl is as transparent
	// as the entrypoint binary.
	if code, ok := launch.ExitCode(err); ok {
		os.Exit(code)
	}

	return fmt.Errorf("launching aries: %w", err)
}
