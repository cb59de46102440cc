package launch

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

func TestConfigPath(t *testing.T) {
	t.Parallel()

	if got, want := ConfigPath(BaseDir), "/opt/mega/etc/config.toml"; got != want {
		t.Errorf("ConfigPath(%q) = %q, want %q", BaseDir, got, want)
	}
}

func TestNew_productionValues(t *testing.T) {
	t.Parallel()

	l := New()
	if l.BaseDir != BaseDir {
		t.Errorf("BaseDir = %q, want %q", l.BaseDir, BaseDir)
	}
	if l.TargetPath != TargetPath {
		t.Errorf("TargetPath = %q, want %q", l.TargetPath, TargetPath)
	}
	if l.Stdout != os.Stdout {
		t.Error("Stdout is not os.Stdout")
	}
	if l.Exec != nil {
		t.Error("Exec should default to nil (platform exec)")
	}
}

func TestRun_configPresent(t *testing.T) {
	// Run mutates the process environment; t.Setenv registers the
	// restore and keeps the test serial.
	t.Setenv(EnvBaseDir, "")

	baseDir := t.TempDir()
	configFile := writeConfigFile(t, baseDir)

	var stdout bytes.Buffer
	var gotArgv0 string
	var gotArgv, gotEnv []string

	l := &Launcher{
		BaseDir:    baseDir,
		TargetPath: TargetPath,
		Stdout:     &stdout,
		Exec: func(argv0 string, argv, envv []string) error {
			gotArgv0 = argv0
			gotArgv = argv
			gotEnv = envv
			return nil
		},
	}

	if err := l.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := "Using config file: " + configFile + "\n"; stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if gotArgv0 != TargetPath {
		t.Errorf("argv0 = %q, want %q", gotArgv0, TargetPath)
	}
	if want := []string{TargetPath, "-c", configFile}; !slices.Equal(gotArgv, want) {
		t.Errorf("argv = %q, want %q", gotArgv, want)
	}
	if got := envValue(gotEnv, EnvBaseDir); got != baseDir {
		t.Errorf("%s in child env = %q, want %q", EnvBaseDir, got, baseDir)
	}
}

func TestRun_configAbsent(t *testing.T) {
	t.Setenv(EnvBaseDir, "")

	baseDir := t.TempDir()

	var stdout bytes.Buffer
	var gotArgv, gotEnv []string

	l := &Launcher{
		BaseDir:    baseDir,
		TargetPath: TargetPath,
		Stdout:     &stdout,
		Exec: func(argv0 string, argv, envv []string) error {
			gotArgv = argv
			gotEnv = envv
			return nil
		},
	}

	if err := l.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if want := []string{TargetPath}; !slices.Equal(gotArgv, want) {
		t.Errorf("argv = %q, want %q", gotArgv, want)
	}
	if got := envValue(gotEnv, EnvBaseDir); got != baseDir {
		t.Errorf("%s in child env = %q, want %q", EnvBaseDir, got, baseDir)
	}
}

func TestRun_configNotRegular(t *testing.T) {
	t.Setenv(EnvBaseDir, "")

	// A directory at the config path selects the no-arguments form.
	baseDir := t.TempDir()
	if err := os.MkdirAll(ConfigPath(baseDir), 0755); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	var gotArgv []string

	l := &Launcher{
		BaseDir:    baseDir,
		TargetPath: TargetPath,
		Stdout:     &stdout,
		Exec: func(argv0 string, argv, envv []string) error {
			gotArgv = argv
			return nil
		},
	}

	if err := l.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want empty", stdout.String())
	}
	if want := []string{TargetPath}; !slices.Equal(gotArgv, want) {
		t.Errorf("argv = %q, want %q", gotArgv, want)
	}
}

func TestRun_overwritesPresetBaseDir(t *testing.T) {
	t.Setenv(EnvBaseDir, "/somewhere/else")

	baseDir := t.TempDir()

	var gotEnv []string
	l := &Launcher{
		BaseDir:    baseDir,
		TargetPath: TargetPath,
		Stdout:     &bytes.Buffer{},
		Exec: func(argv0 string, argv, envv []string) error {
			gotEnv = envv
			return nil
		},
	}

	if err := l.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if got := envValue(gotEnv, EnvBaseDir); got != baseDir {
		t.Errorf("%s in child env = %q, want %q (caller value must not win)", EnvBaseDir, got, baseDir)
	}
	if got := os.Getenv(EnvBaseDir); got != baseDir {
		t.Errorf("%s in own env = %q, want %q", EnvBaseDir, got, baseDir)
	}
}

func TestRun_execFailure(t *testing.T) {
	// Uses the real platform exec against a path that does not exist;
	// it returns an error without replacing the test process.
	tests := []struct {
		name          string
		configPresent bool
	}{
		{name: "config absent", configPresent: false},
		{name: "config present", configPresent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvBaseDir, "")

			baseDir := t.TempDir()
			var wantStdout string
			if tt.configPresent {
				configFile := writeConfigFile(t, baseDir)
				wantStdout = "Using config file: " + configFile + "\n"
			}

			var stdout bytes.Buffer
			l := &Launcher{
				BaseDir:    baseDir,
				TargetPath: filepath.Join(t.TempDir(), "missing-target"),
				Stdout:     &stdout,
			}

			err := l.Run()
			if err == nil {
				t.Fatal("Run() = nil, want exec failure")
			}

			var execErr *ExecError
			if !errors.As(err, &execErr) {
				t.Fatalf("Run() error = %T, want *ExecError", err)
			}
			if execErr.Path != l.TargetPath {
				t.Errorf("ExecError.Path = %q, want %q", execErr.Path, l.TargetPath)
			}
			if !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("errors.Is(err, fs.ErrNotExist) = false, err = %v", err)
			}
			if stdout.String() != wantStdout {
				t.Errorf("stdout = %q, want %q (no output after the exec attempt)", stdout.String(), wantStdout)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	t.Run("nil error carries no status", func(t *testing.T) {
		t.Parallel()

		if code, ok := ExitCode(nil); ok {
			t.Errorf("ExitCode(nil) = %d, true, want no status", code)
		}
	})

	t.Run("exec failure carries no status", func(t *testing.T) {
		t.Parallel()

		err := &ExecError{Path: TargetPath, Err: fs.ErrNotExist}
		if code, ok := ExitCode(err); ok {
			t.Errorf("ExitCode() = %d, true, want no status", code)
		}
	})

	t.Run("completed child reports its status", func(t *testing.T) {
		t.Parallel()

		if runtime.GOOS == "windows" {
			t.Skip("needs sh")
		}

		childErr := exec.Command("sh", "-c", "exit 3").Run()
		if childErr == nil {
			t.Fatal("sh -c 'exit 3' reported success")
		}

		// Wrap the way Run wraps the child-process fallback.
		err := &ExecError{Path: TargetPath, Err: fmt.Errorf("running %s: %w", TargetPath, childErr)}

		code, ok := ExitCode(err)
		if !ok {
			t.Fatalf("ExitCode() found no status in %v", err)
		}
		if code != 3 {
			t.Errorf("ExitCode() = %d, want 3", code)
		}
	})
}

// writeConfigFile creates etc/config.toml under baseDir and returns its path.
func writeConfigFile(t *testing.T, baseDir string) string {
	t.Helper()

	configFile := ConfigPath(baseDir)
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configFile, []byte("base_dir = \""+baseDir+"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return configFile
}

// envValue returns the value for key in an environ-style slice, or "".
func envValue(environ []string, key string) string {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return strings.TrimPrefix(kv, prefix)
		}
	}
	return ""
}
