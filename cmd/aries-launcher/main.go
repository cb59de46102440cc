// Command aries-launcher is the mega container entrypoint. It exports
// MEGA_BASE_DIR, probes /opt/mega/etc/config.toml, and replaces itself
// with the aries binary, passing -c <config> when the file exists.
// After the exec, this process is gone; aries is the main process.
//
// The launcher takes no flags and ignores its arguments: nothing from
// its own invocation is forwarded to aries.
package main

import (
	"fmt"
	"os"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

func main() {
	err := launch.New().Run()
	if err == nil {
		// Unreachable on Unix: a successful exec never returns. The
		// Windows fallback lands here after the child exits cleanly.
		return
	}

	// The child-process fallback carries the target's own exit status;
	// pass it through unchanged.
	if code, ok := launch.ExitCode(err); ok {
		os.Exit(code)
	}

	fmt.Fprintln(os.Stderr, "aries-launcher:", err)
	os.Exit(1)
}
