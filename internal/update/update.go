// Package update asks the release feed whether a newer satellite exists.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const ReleasesURL = "https://api.github.com/repos/ellenbowman/satellite-of-love/releases/latest"

// Result holds the outcome of a version check.
type Result struct {
	Current string
	Latest  string
}

// Newer reports whether Latest differs from the running version.
func (r Result) Newer() bool {
	return r.Latest != "" && r.Latest != r.Current
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	url    string
	client *http.Client
}

func NewChecker(url string) *Checker {
	if url == "" {
		url = ReleasesURL
	}
	return &Checker{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

// Check fetches the latest release tag. A "dev" build reports any release as newer.
func (c *Checker) Check(ctx context.Context, currentVersion string) (Result, error) {
	res := Result{Current: strings.TrimPrefix(currentVersion, "v")}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return res, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return res, fmt.Errorf("checking for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return res, fmt.Errorf("release feed returned status %d", resp.StatusCode)
	}

	var release ghRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return res, fmt.Errorf("decoding release: %w", err)
	}
	res.Latest = strings.TrimPrefix(release.TagName, "v")
	return res, nil
}
