// Package update implements the `-u`/`--check-update` ambient flag: a
// one-shot GitHub release check and optional self-replace, adapted from the
// teacher's interactive `u` REPL command (pkg/cli/update.go) into a
// non-interactive function suitable for a single CLI invocation.
package update

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"

	"github.com/Fepozopo/imagegen/internal/applog"
)

// Repo is the GitHub repository update checks are performed against.
const Repo = "Fepozopo/imagegen"

var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// latestRelease queries the GitHub Releases API directly rather than going
// through selfupdate.DetectLatest, the same fallback the teacher's
// detectLatestFallback uses: it tolerates tag names that aren't strict
// semver by extracting the first semver-looking substring, and skips drafts
// and prereleases.
func latestRelease(repo string) (*selfupdate.Release, bool, error) {
	return latestReleaseFromURL(fmt.Sprintf("https://api.github.com/repos/%s/releases", repo))
}

// latestReleaseFromURL does the actual fetch-and-rank work against apiURL,
// split out from latestRelease so tests can point it at an httptest server.
func latestReleaseFromURL(apiURL string) (*selfupdate.Release, bool, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(apiURL)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}

	var releases []struct {
		TagName    string `json:"tag_name"`
		Name       string `json:"name"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
		Assets     []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}

	type candidate struct {
		ver      semver.Version
		assetURL string
	}
	var candidates []candidate
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			match = semverRe.FindString(r.Name)
			if match == "" {
				continue
			}
		}
		v, perr := semver.Parse(strings.TrimPrefix(match, "v"))
		if perr != nil {
			continue
		}
		assetURL := ""
		for _, a := range r.Assets {
			nameLower := strings.ToLower(a.Name)
			if strings.Contains(nameLower, "linux") || strings.Contains(nameLower, "darwin") ||
				strings.Contains(nameLower, "windows") || strings.Contains(nameLower, "amd64") ||
				strings.Contains(nameLower, "arm64") {
				assetURL = a.BrowserDownloadURL
				break
			}
			if assetURL == "" {
				assetURL = a.BrowserDownloadURL
			}
		}
		candidates = append(candidates, candidate{ver: v, assetURL: assetURL})
	}

	if len(candidates) == 0 {
		return nil, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ver.GT(candidates[j].ver) })
	best := candidates[0]
	return &selfupdate.Release{Version: best.ver, AssetURL: best.assetURL}, true, nil
}

// Check reports the current and latest released version to logger, and — if
// apply is true and a newer release with a downloadable asset exists —
// replaces the running binary in place via selfupdate.UpdateTo. Unlike the
// teacher's interactive command, Check never prompts and never re-execs the
// process: the caller (cmd/imagegen) is responsible for exiting afterward if
// it wants the new binary to take effect on the next run.
func Check(currentVersion string, apply bool, logger *applog.Logger) error {
	if logger == nil {
		logger = applog.Default
	}

	latest, found, err := latestRelease(Repo)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	logger.Infof("current version: %s", currentVersion)
	if !found || latest == nil {
		logger.Infof("no releases found for %s", Repo)
		return nil
	}
	logger.Infof("latest version: %s", latest.Version)

	current, perr := semver.Parse(strings.TrimPrefix(currentVersion, "v"))
	if perr != nil {
		logger.Warnf("could not parse current version %q: %v", currentVersion, perr)
		return nil
	}
	if latest.Version.LTE(current) {
		logger.Infof("already running the latest version: %s", current)
		return nil
	}
	if latest.AssetURL == "" {
		logger.Infof("a new version (%s) is available but has no downloadable asset for this platform", latest.Version)
		return nil
	}
	if !apply {
		logger.Infof("a new version (%s) is available", latest.Version)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := selfupdate.UpdateTo(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	logger.Infof("updated to version %s", latest.Version)
	return nil
}
