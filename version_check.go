package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/oszuidwest/zwfm-errmatch/internal/types"
	"github.com/oszuidwest/zwfm-errmatch/internal/util"
	"golang.org/x/mod/semver"
)

const (
	githubRepo           = "oszuidwest/zwfm-errmatch"
	githubAPIBase        = "https://api.github.com"
	versionCheckInterval = 24 * time.Hour
	versionCheckDelay    = 30 * time.Second // Lets startup finish before the first request
	versionCheckTimeout  = 30 * time.Second
)

// VersionChecker polls the latest release. It is safe for concurrent use.
type VersionChecker struct {
	client  *http.Client
	baseURL string

	mu     sync.RWMutex
	latest string
	etag   string
}

// NewVersionChecker returns a VersionChecker querying the GitHub releases API.
func NewVersionChecker() *VersionChecker {
	return &VersionChecker{client: http.DefaultClient, baseURL: githubAPIBase}
}

// Run checks for a new release after a short delay and then daily, until
// ctx is done. Failures are logged and retried on the next tick.
func (vc *VersionChecker) Run(ctx context.Context) {
	timer := time.NewTimer(versionCheckDelay)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			if err := vc.check(ctx); err != nil {
				slog.Debug("version check failed", "error", err)
			}
			timer.Reset(versionCheckInterval)
		case <-ctx.Done():
			return
		}
	}
}

// githubRelease is the subset of the release payload that is used.
type githubRelease struct {
	TagName    string `json:"tag_name"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
}

// check fetches the latest release and records its version. Drafts and
// prereleases are ignored, as is an unchanged ETag.
func (vc *VersionChecker) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()

	url := vc.baseURL + "/repos/" + githubRepo + "/releases/latest"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return goerr.Wrap(err, "failed to build release request")
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "zwfm-errmatch/"+Version)

	vc.mu.RLock()
	if vc.etag != "" {
		req.Header.Set("If-None-Match", vc.etag)
	}
	vc.mu.RUnlock()

	resp, err := vc.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "release request failed")
	}
	defer resp.Body.Close() //nolint:errcheck // Response body close error is not actionable

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotModified, http.StatusNotFound:
		return nil
	default:
		return goerr.New("unexpected release response", goerr.V("status", resp.StatusCode))
	}

	var release githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return goerr.Wrap(err, "failed to decode release")
	}
	if release.Draft || release.Prerelease {
		return nil
	}
	if release.TagName == "" {
		return goerr.New("release has no tag")
	}

	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.latest = normalizeVersion(release.TagName)
	if etag := resp.Header.Get("ETag"); etag != "" {
		vc.etag = etag
	}
	return nil
}

// Info returns the running and latest known versions.
func (vc *VersionChecker) Info() types.VersionInfo {
	vc.mu.RLock()
	defer vc.mu.RUnlock()

	current := normalizeVersion(Version)
	info := types.VersionInfo{
		Current:   current,
		Latest:    vc.latest,
		Commit:    Commit,
		BuildTime: util.FormatHumanTime(BuildTime),
	}
	if vc.latest != "" && semver.IsValid("v"+current) {
		info.UpdateAvail = isNewerVersion(vc.latest, current)
	}
	return info
}

func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// isNewerVersion reports whether latest is newer than current. Both may
// carry a leading "v".
func isNewerVersion(latest, current string) bool {
	return semver.Compare("v"+normalizeVersion(latest), "v"+normalizeVersion(current)) > 0
}
