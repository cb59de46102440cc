package preflight

import (
	"fmt"
	"os"
)

// CheckBaseDir verifies the base directory is usable when it exists.
// A missing directory is healthy: the config probe then selects the
// no-config launch form.
func CheckBaseDir(path string) Result {
	const name = "base directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (does not exist; config probe selects the no-config form)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessible(path, accessRead|accessExec); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckConfigFile probes the config file the way the launcher does and
// names the launch form that would be chosen. Present and absent both
// pass; an entry the launcher would skip for a surprising reason fails.
func CheckConfigFile(path string) Result {
	const name = "config file"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (absent: aries starts with built-in defaults)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := accessible(path, accessRead); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (present: aries starts with -c)", path)}
}

// CheckTarget verifies the target binary exists and can be executed.
// This is the one condition the launch cannot survive.
func CheckTarget(path string) Result {
	const name = "target binary"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if info.Mode()&0111 == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not executable (mode %s))", path, info.Mode())}
	}
	if err := accessible(path, accessExec); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not executable by this user: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}
