package status

import (
	"strconv"

	"github.com/tidwall/gjson"
)

// Synonym lists for generic top-level field probing. The first key that
// exists wins its category.
var (
	balanceKeys = []string{"balance", "credit", "credits", "remaining", "quota_remaining", "quotaRemaining", "available"}
	usageKeys   = []string{"usage", "used", "used_quota", "usedQuota", "current_usage", "currentUsage", "consumed"}
	totalKeys   = []string{"total", "limit", "quota_limit", "quotaLimit", "total_quota", "totalQuota"}
	messageKeys = []string{"message", "msg", "error", "detail"}
)

// Normalize reduces a parsed response body to display values. The body may
// be a single object or an array of candidate objects; the first candidate
// yielding a usable result wins.
func Normalize(body gjson.Result) Result {
	candidates := []gjson.Result{body}
	if body.IsArray() {
		candidates = body.Array()
	}
	for _, c := range candidates {
		if r := normalizeOne(c); !r.empty() {
			return r
		}
	}
	return Result{}
}

// normalizeOne tries the known shapes in priority order.
func normalizeOne(c gjson.Result) Result {
	// (a) nested data.quota.{quotaRemaining,currentUsage,quotaLimit}
	if q := c.Get("data.quota"); q.IsObject() {
		rem := q.Get("quotaRemaining")
		use := q.Get("currentUsage")
		lim := q.Get("quotaLimit")
		if rem.Exists() || use.Exists() || lim.Exists() {
			return Result{Balance: display(rem), Usage: display(use), Total: display(lim)}
		}
	}

	if d := c.Get("data"); d.IsObject() {
		// (b) nested data.{usage,balance,total}, all three present
		use := d.Get("usage")
		bal := d.Get("balance")
		tot := d.Get("total")
		if use.Exists() && bal.Exists() && tot.Exists() {
			return Result{Usage: display(use), Balance: display(bal), Total: display(tot)}
		}

		// (c) nested data.{used_quota,quota}: quota is what REMAINS, so the
		// total is the sum, not the quota field itself.
		usedQuota := d.Get("used_quota")
		quota := d.Get("quota")
		if usedQuota.Exists() && quota.Exists() {
			return Result{
				Usage:   display(usedQuota),
				Balance: display(quota),
				Total:   formatNumber(usedQuota.Float() + quota.Float()),
			}
		}
	}

	// (d) generic top-level probing across the synonym lists.
	return Result{
		Balance: probe(c, balanceKeys),
		Usage:   probe(c, usageKeys),
		Total:   probe(c, totalKeys),
		Message: probe(c, messageKeys),
	}
}

func probe(c gjson.Result, keys []string) string {
	for _, k := range keys {
		if v := c.Get(k); v.Exists() {
			return display(v)
		}
	}
	return ""
}

// display renders a field for the UI. Primitive values keep their natural
// text form; objects and arrays are re-serialized.
func display(v gjson.Result) string {
	if !v.Exists() {
		return ""
	}
	if v.Type == gjson.JSON {
		return v.Raw
	}
	return v.String()
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
