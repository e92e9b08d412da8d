// Package tomledit manipulates the base_url key of a Codex config document
// at the text level. The document is treated as mostly-opaque: only the
// root-level model_provider key, the matching [model_providers.<name>]
// table header and the base_url line inside that table are interpreted.
// Everything else, including comments and formatting, passes through
// byte-for-byte. This deliberately avoids a TOML parser, which would
// re-serialize unrelated content.
package tomledit

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultProviderName is the table name used when a document carries no
// model_provider key of its own.
const DefaultProviderName = "custom"

var (
	providerKeyRe = regexp.MustCompile(`(?m)^[ \t]*model_provider[ \t]*=[ \t]*["']([^"']+)["']`)
	baseURLLineRe = regexp.MustCompile(`^[ \t]*base_url[ \t]*=[ \t]*["']([^"']*)["']`)
	anyHeaderRe   = regexp.MustCompile(`^[ \t]*\[`)
)

// providerHeaderRe matches the [model_providers.<name>] header for a literal
// provider name. Matching is case-insensitive for the header only.
func providerHeaderRe(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^[ \t]*\[model_providers\.` + regexp.QuoteMeta(name) + `\][ \t]*$`)
}

// providerName returns the value of the root-level model_provider key, or "".
func providerName(text string) string {
	if m := providerKeyRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// sectionBounds locates the provider table for name in lines. It returns the
// header line index and the index one past the last line of the section
// (the next table header, or len(lines)). ok is false when the header is
// absent.
func sectionBounds(lines []string, name string) (header, end int, ok bool) {
	headerRe := providerHeaderRe(name)
	for i, line := range lines {
		if !headerRe.MatchString(line) {
			continue
		}
		end = len(lines)
		for j := i + 1; j < len(lines); j++ {
			if anyHeaderRe.MatchString(lines[j]) {
				end = j
				break
			}
		}
		return i, end, true
	}
	return 0, 0, false
}

// ExtractBaseURL returns the base_url value for the document's provider
// table. When the document names a model_provider, the matching
// [model_providers.<name>] table is searched first; a root-level base_url
// line (before any table header) is the fallback. The second return value
// is false when no base_url can be located.
func ExtractBaseURL(text string) (string, bool) {
	lines := strings.Split(text, "\n")

	if name := providerName(text); name != "" {
		if header, end, ok := sectionBounds(lines, name); ok {
			for _, line := range lines[header+1 : end] {
				if m := baseURLLineRe.FindStringSubmatch(line); m != nil {
					return m[1], true
				}
			}
		}
	}

	// Root-level fallback: only lines before the first table header count.
	for _, line := range lines {
		if anyHeaderRe.MatchString(line) {
			break
		}
		if m := baseURLLineRe.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// StripProviderBaseURL returns the document with the base_url line inside
// the matched provider table removed. The table header, every other key and
// all unrelated lines stay untouched and in original order. Documents
// without a provider table come back unchanged, which makes the operation
// idempotent.
func StripProviderBaseURL(text string) string {
	name := providerName(text)
	if name == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	header, end, ok := sectionBounds(lines, name)
	if !ok {
		return text
	}
	for i := header + 1; i < end; i++ {
		if baseURLLineRe.MatchString(lines[i]) {
			return strings.Join(append(lines[:i:i], lines[i+1:]...), "\n")
		}
	}
	return text
}

// MergeBaseURL combines a base URL with a (possibly empty) custom document
// into a complete Codex config:
//   - empty custom text synthesizes a minimal template naming the default
//     provider;
//   - a document without a model_provider key gets the default key injected
//     at the top;
//   - an existing base_url line in the provider table is overwritten in
//     place, otherwise one is inserted just before the next table header
//     (or at document end when the table is last);
//   - a missing provider table is appended with the base URL.
func MergeBaseURL(baseURL, customText string) string {
	if strings.TrimSpace(customText) == "" {
		return fmt.Sprintf(`model_provider = "%[1]s"

[model_providers.%[1]s]
name = "%[1]s"
base_url = "%[2]s"
wire_api = "responses"
`, DefaultProviderName, baseURL)
	}

	text := customText
	name := providerName(text)
	if name == "" {
		name = DefaultProviderName
		text = fmt.Sprintf("model_provider = %q\n", name) + text
	}

	lines := strings.Split(text, "\n")
	header, end, ok := sectionBounds(lines, name)
	if !ok {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return text + fmt.Sprintf("\n[model_providers.%s]\nbase_url = %q\n", name, baseURL)
	}

	newLine := fmt.Sprintf("base_url = %q", baseURL)
	for i := header + 1; i < end; i++ {
		if baseURLLineRe.MatchString(lines[i]) {
			lines[i] = newLine
			return strings.Join(lines, "\n")
		}
	}

	// No base_url in the table: insert at the section end, but keep any
	// blank separator lines between this table and the next one after the
	// inserted line.
	insert := end
	for insert > header+1 && strings.TrimSpace(lines[insert-1]) == "" {
		insert--
	}
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:insert]...)
	out = append(out, newLine)
	out = append(out, lines[insert:]...)
	return strings.Join(out, "\n")
}
