// Package httpregistry implements wsdep.RegistryAdapter against an
// npm-style HTTP registry: GET {baseURL}/{name} returns a JSON document
// listing every published version. It declares itself parallel-safe, so
// the upgrade planner fans calls out concurrently via errgroup.
package httpregistry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/wsdep/workspace-deps/wsdep"
)

// Adapter queries an npm-style HTTP registry for a dependency's published
// versions.
type Adapter struct {
	BaseURL    string
	HTTPClient *http.Client
	Stability  wsdep.VersionStability
}

// New returns an Adapter pointed at baseURL (no trailing slash). If client
// is nil, it uses a new http.Client with a 10-second timeout.
func New(baseURL string, stability wsdep.VersionStability, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Adapter{BaseURL: strings.TrimRight(baseURL, "/"), HTTPClient: client, Stability: stability}
}

type registryResponse struct {
	Versions map[string]json.RawMessage `json:"versions"`
}

// LatestAndCompatible fetches every published version of name, filters by
// the configured stability, and returns the greatest one as latest along
// with the full filtered candidate set.
func (a *Adapter) LatestAndCompatible(ctx context.Context, name string) (wsdep.Version, []wsdep.Version, error) {
	reqURL := fmt.Sprintf("%s/%s", a.BaseURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return wsdep.Version{}, nil, errors.Wrapf(err, "building registry request for %q", name)
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return wsdep.Version{}, nil, errors.Wrapf(err, "querying registry for %q", name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return wsdep.Version{}, nil, errors.Errorf("registry returned %s for %q", resp.Status, name)
	}

	var payload registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return wsdep.Version{}, nil, errors.Wrapf(err, "decoding registry response for %q", name)
	}

	var candidates []wsdep.Version
	for raw := range payload.Versions {
		v, err := wsdep.ParseVersion(raw)
		if err != nil {
			continue
		}
		if a.Stability == wsdep.StableOnly && isPrerelease(v) {
			continue
		}
		candidates = append(candidates, v)
	}
	if len(candidates) == 0 {
		return wsdep.Version{}, nil, errors.Errorf("registry returned no usable versions for %q", name)
	}

	sort.Slice(candidates, func(i, j int) bool { return wsdep.Compare(candidates[i], candidates[j]) > 0 })
	latest := candidates[0]
	return latest, candidates, nil
}

func isPrerelease(v wsdep.Version) bool {
	return v.IsPrerelease()
}

// ParallelSafe reports that concurrent calls to LatestAndCompatible are
// safe: each call opens its own HTTP request and touches no shared
// mutable state.
func (a *Adapter) ParallelSafe() bool { return true }

var (
	_ wsdep.RegistryAdapter     = (*Adapter)(nil)
	_ wsdep.ParallelSafeAdapter = (*Adapter)(nil)
)
