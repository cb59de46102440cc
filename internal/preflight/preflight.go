// Package preflight checks the host prerequisites of the launch
// contract without performing the launch: the base directory, the
// config file probe, and the target binary.
package preflight

import (
	"os"

	"github.com/web3infra-foundation/aries-launcher/internal/launch"
)

// Result is the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Run evaluates every check in contract order. Absence states that
// merely select the no-config launch form are healthy; only conditions
// that break the launch, or that the launcher would silently paper
// over, fail.
func Run(baseDir, configFile, target string) []Result {
	return []Result{
		CheckEnvironment(baseDir),
		CheckBaseDir(baseDir),
		CheckConfigFile(configFile),
		CheckTarget(target),
	}
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}

// CheckEnvironment reports what happens to the base directory variable.
// The launcher always overwrites it, so a caller-exported value is worth
// surfacing but never fatal.
func CheckEnvironment(baseDir string) Result {
	const name = "environment"
	if preset, ok := os.LookupEnv(launch.EnvBaseDir); ok && preset != baseDir {
		return Result{
			Name:   name,
			Passed: true,
			Detail: launch.EnvBaseDir + "=" + preset + " is set but the launcher overwrites it with " + baseDir,
		}
	}
	return Result{Name: name, Passed: true, Detail: launch.EnvBaseDir + "=" + baseDir}
}
