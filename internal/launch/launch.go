// Package launch implements the aries entrypoint contract: export
// MEGA_BASE_DIR, probe the base directory for etc/config.toml, and
// replace the current process image with the aries binary, passing
// -c <config> when the file exists.
package launch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// Production values of the contract.
const (
	// EnvBaseDir is exported for the target process. It is always set
	// to BaseDir; a value exported by the caller does not win.
	EnvBaseDir = "MEGA_BASE_DIR"

	// BaseDir is the mega installation root.
	BaseDir = "/opt/mega"

	// TargetPath is the absolute path of the aries binary.
	TargetPath = "/usr/local/bin/aries"
)

// ConfigPath returns the config file path derived from a base directory.
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, "etc", "config.toml")
}

// ExecFunc replaces the current process image with the given command.
// argv follows the execve convention: argv[0] is the program itself.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// ExecError reports that the target binary could not be executed
// (missing, not a regular file, or permission denied). There is no
// retry or fallback; callers exit non-zero.
type ExecError struct {
	Path string
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("exec %s: %v", e.Path, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// ExitCode returns the exit status carried by err and reports whether
// one exists. Only the child-process fallback produces one: it runs the
// target to completion instead of replacing the process image, and
// callers mirror the status so the launch is transparent either way.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// Launcher hands the current process over to the aries binary.
//
// The zero value is not usable; call New. Fields are exported so tests
// can point BaseDir at a scratch directory and capture the exec call;
// the shipped binaries use New unmodified.
type Launcher struct {
	// BaseDir is written to EnvBaseDir and probed for etc/config.toml.
	BaseDir string

	// TargetPath is the binary that replaces this process.
	TargetPath string

	// Stdout receives the single informational line printed when the
	// config file is present. Nothing else is ever written to it.
	Stdout io.Writer

	// Exec performs the process-image replacement. Nil means the
	// platform's syscallExec.
	Exec ExecFunc
}

// New returns a Launcher carrying the production contract values.
func New() *Launcher {
	return &Launcher{
		BaseDir:    BaseDir,
		TargetPath: TargetPath,
		Stdout:     os.Stdout,
	}
}

// Run executes the contract. On success the process image is replaced
// and Run never returns; the only error it can return is *ExecError.
// The launcher's own invocation arguments are never forwarded to the
// target.
func (l *Launcher) Run() error {
	// Unconditional overwrite, matching the original entrypoint.
	os.Setenv(EnvBaseDir, l.BaseDir)

	configFile := ConfigPath(l.BaseDir)

	// Present means the stat succeeds and the entry is a regular file.
	// Any other outcome selects the no-arguments form; aries then runs
	// on its built-in defaults. Neither branch is an error.
	var args []string
	if info, err := os.Stat(configFile); err == nil && info.Mode().IsRegular() {
		fmt.Fprintf(l.Stdout, "Using config file: %s\n", configFile)
		args = []string{"-c", configFile}
	}

	execFn := l.Exec
	if execFn == nil {
		execFn = syscallExec
	}

	argv := append([]string{l.TargetPath}, args...)
	if err := execFn(l.TargetPath, argv, os.Environ()); err != nil {
		return &ExecError{Path: l.TargetPath, Err: err}
	}
	return nil
}
