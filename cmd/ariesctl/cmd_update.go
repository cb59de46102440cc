package main

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	githubRepo   = "web3infra-foundation/aries-launcher"
	githubAPIURL = "https://api.github.com/repos/" + githubRepo + "/releases/latest"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the launcher to the latest version",
	Long: `Check GitHub for the latest release and update ariesctl and
aries-launcher in place.

If the aries systemd service is running, it will be restarted after
the update so the new launcher takes effect.

This command must be run as root:
  sudo ariesctl update`,
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if os.Getuid() != 0 {
		return fmt.Errorf("update must be run as root (try: sudo ariesctl update)")
	}

	// Fetch latest release info from GitHub.
	fmt.Fprintf(os.Stderr, "Checking for updates...\n")

	release, err := fetchLatestRelease()
	if err != nil {
		return fmt.Errorf("checking for updates: %w", err)
	}

	latestVersion := strings.TrimPrefix(release.TagName, "v")
	currentVersion := strings.TrimPrefix(version, "v")

	if latestVersion == currentVersion {
		fmt.Fprintf(os.Stderr, "Already up to date (v%s).\n", currentVersion)
		return nil
	}

	fmt.Fprintf(os.Stderr, "Current version: v%s\n", currentVersion)
	fmt.Fprintf(os.Stderr, "Latest version:  v%s\n", latestVersion)
	fmt.Fprintf(os.Stderr, "Updating...\n")

	// Find the right asset for this OS/arch.
	assetName := fmt.Sprintf("aries-launcher_%s_%s_%s.tar.gz", latestVersion, runtime.GOOS, runtime.GOARCH)
	var downloadURL string
	for _, asset := range release.Assets {
		if asset.Name == assetName {
			downloadURL = asset.BrowserDownloadURL
			break
		}
	}

	if downloadURL == "" {
		return fmt.Errorf("no release found for %s/%s (looking for %s)", runtime.GOOS, runtime.GOARCH, assetName)
	}

	// Download the tarball. Both binaries ship in the same archive.
	fmt.Fprintf(os.Stderr, "Downloading %s...\n", assetName)

	binaries, err := downloadAndExtractBinaries(downloadURL, ctlBinaryName, launcherBinaryName)
	if err != nil {
		return fmt.Errorf("downloading update: %w", err)
	}

	// Determine install paths from where ariesctl currently runs.
	installPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding current binary: %w", err)
	}
	installPath, err = filepath.EvalSymlinks(installPath)
	if err != nil {
		return fmt.Errorf("resolving binary path: %w", err)
	}

	if err := replaceBinary(installPath, binaries[ctlBinaryName]); err != nil {
		return err
	}

	launcherPath := filepath.Join(filepath.Dir(installPath), launcherBinaryName)
	if _, err := os.Stat(launcherPath); err == nil {
		if err := replaceBinary(launcherPath, binaries[launcherBinaryName]); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stderr, "Warning: %s not found next to %s, skipping it.\n", launcherBinaryName, installPath)
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s at %s\n", latestVersion, filepath.Dir(installPath))

	// Restart service if running.
	if runtime.GOOS == "linux" {
		restartSystemdIfActive()
	}

	// Remove quarantine on macOS.
	if runtime.GOOS == "darwin" {
		// Ignore error: xattr may not exist or quarantine may not be set.
		_ = exec.Command("xattr", "-dr", "com.apple.quarantine", installPath).Run()
	}

	return nil
}

// githubRelease is a subset of the GitHub API release response.
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

func fetchLatestRelease() (*githubRelease, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	req, err := http.NewRequest(http.MethodGet, githubAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("GitHub API returned %d: %s", resp.StatusCode, string(body))
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("parsing release: %w", err)
	}

	return &release, nil
}

// downloadAndExtractBinaries downloads a tarball and extracts the named
// binaries. All names must be present in the archive.
func downloadAndExtractBinaries(url string, names ...string) (map[string][]byte, error) {
	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	gz, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	binaries := make(map[string][]byte, len(names))
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar: %w", err)
		}

		// Binaries may be at top level or in a directory.
		name := filepath.Base(header.Name)
		if header.Typeflag == tar.TypeReg && wanted[name] {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("extracting %s: %w", name, err)
			}
			binaries[name] = data
		}
	}

	for _, n := range names {
		if _, ok := binaries[n]; !ok {
			return nil, fmt.Errorf("binary %q not found in tarball", n)
		}
	}

	return binaries, nil
}

// replaceBinary atomically replaces the binary at path: write to a temp
// file in the same directory, then rename.
func replaceBinary(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".aries-update-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing update: %w", err)
	}
	if err := tmp.Chmod(0755); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing binary: %w", err)
	}
	tmpPath = "" // Prevent deferred removal.

	return nil
}

func restartSystemdIfActive() {
	// Check if the service is active.
	check := exec.Command("systemctl", "is-active", "--quiet", serviceName)
	if check.Run() != nil {
		return // Not active.
	}

	fmt.Fprintf(os.Stderr, "Restarting systemd service...\n")
	restart := exec.Command("systemctl", "restart", serviceName)
	restart.Stdout = os.Stderr
	restart.Stderr = os.Stderr
	if err := restart.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to restart service: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "Service restarted.\n")
	}
}
