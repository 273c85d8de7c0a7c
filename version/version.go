// Package version checks for newer releases of the command line client.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/network"
	"github.com/copypastelearn/cpl/where"
)

// ReleasesURL lists published releases.
const ReleasesURL = "https://github.com/copypastelearn/cpl/releases"

const latestURL = "https://api.github.com/repos/copypastelearn/cpl/releases/latest"

var versionCacher = filesystem.NewCache[string](filepath.Join(where.Cache(), "version.json"), 48*time.Hour)

// Latest returns the newest released version, cached for two days.
func Latest(ctx context.Context) (string, error) {
	ver, expired, err := versionCacher.Get()
	if err != nil {
		return "", err
	}
	if !expired && ver != "" {
		return ver, nil
	}

	ver, err = fetch(ctx, latestURL)
	if err != nil {
		return "", err
	}
	_ = versionCacher.Set(ver)
	return ver, nil
}

func fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := network.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}
	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
