package status

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"ccswitch/config/models"
)

const (
	// selfInfoPath marks new-api style consoles: the configured URL points
	// at the account "self" endpoint and a sibling /api/status endpoint
	// carries the per-unit quota divisor used for display scaling.
	selfInfoPath      = "/api/user/self"
	statusSiblingPath = "/api/status"
)

// consoleAdapter enriches new-api style console responses with the
// quota-per-unit divisor from the sibling status endpoint. Display values
// still come from the generic normalization path.
type consoleAdapter struct{}

func (a *consoleAdapter) Handles(u *url.URL) bool {
	return strings.Contains(u.Path, selfInfoPath)
}

func (a *consoleAdapter) Apply(ctx context.Context, f *Fetcher, cfg *models.StatusConfig, u *url.URL, body gjson.Result, snap *models.Snapshot) (Result, bool) {
	statusURL := strings.Replace(cfg.URL, selfInfoPath, statusSiblingPath, 1)
	statusBody, code, err := f.get(ctx, cfg, statusURL)
	if err == nil && code >= 200 && code < 300 && gjson.Valid(statusBody) {
		for _, key := range []string{"data.quota_per_unit", "data.QuotaPerUnit"} {
			if v := gjson.Get(statusBody, key); v.Exists() && v.Float() > 0 {
				snap.QuotaPerUnit = v.Float()
				break
			}
		}
	}
	return Result{}, false
}

// aggregatorHostRe matches the known balance-aggregator service whose
// console splits usage and subscription data across two endpoints.
var aggregatorHostRe = regexp.MustCompile(`(?i)(^|\.)88code\.`)

// aggregatorAdapter synthesizes the full result for the aggregator: the
// first response carries the cost so far, the sibling subscription endpoint
// carries the current plan's credit balance. The subscription entry with the
// numerically largest id is the current one. Values are already in display
// currency units, so the divisor is fixed at 1.
type aggregatorAdapter struct{}

func (a *aggregatorAdapter) Handles(u *url.URL) bool {
	return aggregatorHostRe.MatchString(u.Hostname())
}

func (a *aggregatorAdapter) Apply(ctx context.Context, f *Fetcher, cfg *models.StatusConfig, u *url.URL, body gjson.Result, snap *models.Snapshot) (Result, bool) {
	usage := firstNumber(body, "data.totalCost", "totalCost", "data.usedAmount", "cost")

	subBody, code, err := f.get(ctx, cfg, siblingURL(u, "subscription"))
	if err != nil || code < 200 || code >= 300 || !gjson.Valid(subBody) {
		return Result{}, false
	}
	current := currentSubscription(gjson.Parse(subBody))
	if !current.Exists() {
		return Result{}, false
	}
	balance, ok := firstNumberOK(current, "creditBalance", "balance", "credit")
	if !ok {
		return Result{}, false
	}

	snap.QuotaPerUnit = 1
	return Result{
		Usage:   formatNumber(usage),
		Balance: formatNumber(balance),
		Total:   formatNumber(usage + balance),
	}, true
}

// currentSubscription picks the entry with the largest numeric id from the
// subscription list, which may live under "data" or at the root.
func currentSubscription(body gjson.Result) gjson.Result {
	list := body.Get("data")
	if !list.IsArray() {
		list = body
	}
	if !list.IsArray() {
		return gjson.Result{}
	}
	var current gjson.Result
	maxID := -1.0
	for _, entry := range list.Array() {
		id := entry.Get("id")
		if !id.Exists() {
			continue
		}
		if !current.Exists() || id.Float() > maxID {
			current = entry
			maxID = id.Float()
		}
	}
	return current
}

// siblingURL swaps the final path segment of u for segment.
func siblingURL(u *url.URL, segment string) string {
	sibling := *u
	sibling.Path = path.Join(path.Dir(u.Path), segment)
	sibling.RawQuery = ""
	return sibling.String()
}

func firstNumber(body gjson.Result, keys ...string) float64 {
	v, _ := firstNumberOK(body, keys...)
	return v
}

func firstNumberOK(body gjson.Result, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v := body.Get(k); v.Exists() {
			return v.Float(), true
		}
	}
	return 0, false
}
