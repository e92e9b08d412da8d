// Package status fetches a provider's balance/usage endpoint and reduces
// the wildly different response shapes upstream consoles return into one
// fixed snapshot. Provider-specific quirks live in an ordered adapter list;
// everything else goes through generic field probing.
package status

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"ccswitch/config/models"
)

const (
	// fetchTimeout bounds every upstream request, including the chained
	// adapter requests.
	fetchTimeout = 15 * time.Second

	// userIDHeader carries the optional numeric user id some consoles
	// require alongside the bearer token.
	userIDHeader = "new-api-user"
)

// Result holds the normalized display values extracted from one response.
type Result struct {
	Balance string
	Usage   string
	Total   string
	Message string
}

func (r Result) empty() bool {
	return r.Balance == "" && r.Usage == "" && r.Total == "" && r.Message == ""
}

// Adapter handles one known non-standard upstream. Handles is checked
// against the configured URL; Apply may enrich the snapshot (quota divisor)
// and may take over normalization entirely by returning ok=true. Returning
// ok=false leaves the display values to the generic path, so new providers
// can be added without touching it.
type Adapter interface {
	Handles(u *url.URL) bool
	Apply(ctx context.Context, f *Fetcher, cfg *models.StatusConfig, u *url.URL, body gjson.Result, snap *models.Snapshot) (Result, bool)
}

// Fetcher runs the status fetch pipeline.
type Fetcher struct {
	client   *http.Client
	adapters []Adapter
}

// NewFetcher creates a Fetcher with the built-in adapter list.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client:   &http.Client{Timeout: fetchTimeout},
		adapters: []Adapter{&consoleAdapter{}, &aggregatorAdapter{}},
	}
}

// Fetch queries the configured status endpoint and returns a snapshot.
// Failures of any kind are captured in the snapshot, never returned as
// errors: a broken endpoint must not break anything else.
func (f *Fetcher) Fetch(ctx context.Context, cfg *models.StatusConfig) models.Snapshot {
	snap := models.Snapshot{FetchedAt: time.Now(), State: models.SnapshotError}
	if cfg == nil || cfg.URL == "" {
		snap.Message = "not configured"
		return snap
	}

	body, statusCode, err := f.get(ctx, cfg, cfg.URL)
	if err != nil {
		snap.Message = err.Error()
		return snap
	}
	snap.RawText = body

	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		snap.State = models.SnapshotAuth
		snap.Message = "authentication expired"
		return snap
	}
	if statusCode >= 200 && statusCode < 300 {
		snap.OK = true
		snap.State = models.SnapshotOK
	}

	var parsed gjson.Result
	if gjson.Valid(body) {
		parsed = gjson.Parse(body)
	}

	var res Result
	handled := false
	if u, uerr := url.Parse(cfg.URL); uerr == nil {
		for _, a := range f.adapters {
			if !a.Handles(u) {
				continue
			}
			res, handled = a.Apply(ctx, f, cfg, u, parsed, &snap)
			break
		}
	}
	if !handled {
		res = Normalize(parsed)
	}

	snap.Balance = res.Balance
	snap.Usage = res.Usage
	snap.Total = res.Total
	if res.Message != "" {
		snap.Message = res.Message
	}
	if !snap.OK && snap.Message == "" {
		if text := http.StatusText(statusCode); text != "" {
			snap.Message = text
		} else {
			snap.Message = fmt.Sprintf("HTTP %d", statusCode)
		}
	}
	return snap
}

// get issues one GET with the configured optional headers and returns the
// body text and status code.
func (f *Fetcher) get(ctx context.Context, cfg *models.StatusConfig, rawURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("creating request: %w", err)
	}
	if cfg.Authorization != "" {
		req.Header.Set("Authorization", cfg.Authorization)
	}
	if cfg.UserID != "" {
		req.Header.Set(userIDHeader, cfg.UserID)
	}
	if cfg.Cookie != "" {
		req.Header.Set("Cookie", cfg.Cookie)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("reading response body: %w", err)
	}
	return string(body), resp.StatusCode, nil
}
