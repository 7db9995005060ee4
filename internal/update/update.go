// Package update asks the release feed whether a newer bfind exists. It is
// only used on explicit request and keeps no state on disk.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	semver "github.com/blang/semver/v4"
)

// DefaultURL is the GitHub "latest release" endpoint for bfind.
const DefaultURL = "https://api.github.com/repos/varalys/bfind/releases/latest"

// ErrSkipped is returned when checks are disabled (for example in CI).
var ErrSkipped = errors.New("update check skipped")

// Checker fetches the latest release tag.
type Checker struct {
	URL    string
	Client *http.Client
}

// New returns a Checker for DefaultURL with a short timeout.
func New() *Checker {
	return &Checker{URL: DefaultURL, Client: &http.Client{Timeout: 2 * time.Second}}
}

// Result is the outcome of a check.
type Result struct {
	Current string
	Latest  string
	Newer   bool
}

// Check compares current against the latest published release. It returns
// ErrSkipped when the CI environment variable is set.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	res := Result{Current: normalize(current)}
	if os.Getenv("CI") != "" {
		return res, ErrSkipped
	}
	latest, err := c.latest(ctx)
	if err != nil {
		return res, err
	}
	res.Latest = normalize(latest)

	cur, err := semver.ParseTolerant(res.Current)
	if err != nil {
		return res, fmt.Errorf("parse current version %q: %w", current, err)
	}
	lat, err := semver.ParseTolerant(res.Latest)
	if err != nil {
		return res, fmt.Errorf("parse latest version %q: %w", latest, err)
	}
	res.Newer = lat.GT(cur)
	return res, nil
}

func (c *Checker) latest(ctx context.Context) (string, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "bfind-version-check")
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release feed returned %s", resp.Status)
	}
	var obj struct {
		TagName string `json:"tag_name"`
		Name    string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&obj); err != nil {
		return "", err
	}
	v := obj.TagName
	if v == "" {
		v = obj.Name
	}
	if v == "" {
		return "", errors.New("release feed returned no version")
	}
	return v, nil
}

func normalize(v string) string {
	v = strings.TrimSpace(v)
	return strings.TrimPrefix(v, "v")
}
