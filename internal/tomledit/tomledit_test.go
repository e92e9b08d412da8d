package tomledit

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestExtractBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantOK  bool
	}{
		{
			name: "provider table",
			text: `model_provider = "kimi"
model = "gpt-5"

[model_providers.kimi]
name = "kimi"
base_url = "https://api.moonshot.cn/v1"
wire_api = "responses"
`,
			want:   "https://api.moonshot.cn/v1",
			wantOK: true,
		},
		{
			name: "header match is case-insensitive",
			text: `model_provider = "Kimi"

[model_providers.kimi]
base_url = "https://api.moonshot.cn/v1"
`,
			want:   "https://api.moonshot.cn/v1",
			wantOK: true,
		},
		{
			name: "single quoted value",
			text: `model_provider = 'p'

[model_providers.p]
base_url = 'https://example.com'
`,
			want:   "https://example.com",
			wantOK: true,
		},
		{
			name:   "root level fallback without provider key",
			text:   "base_url = \"https://root.example.com\"\nmodel = \"gpt-5\"\n",
			want:   "https://root.example.com",
			wantOK: true,
		},
		{
			name: "root level lines after a header do not count",
			text: `[other]
base_url = "https://wrong.example.com"
`,
			wantOK: false,
		},
		{
			name: "base_url in an unrelated table is ignored",
			text: `model_provider = "mine"

[model_providers.other]
base_url = "https://other.example.com"
`,
			wantOK: false,
		},
		{
			name:   "empty document",
			text:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractBaseURL(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ExtractBaseURL ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ExtractBaseURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripProviderBaseURL(t *testing.T) {
	doc := `model_provider = "kimi"
model = "gpt-5"

[model_providers.kimi]
name = "kimi"
base_url = "https://api.moonshot.cn/v1"
wire_api = "responses"

[other]
base_url = "https://keep.example.com"
`
	stripped := StripProviderBaseURL(doc)

	if strings.Contains(stripped, `base_url = "https://api.moonshot.cn/v1"`) {
		t.Error("provider table base_url should be removed")
	}
	if !strings.Contains(stripped, `base_url = "https://keep.example.com"`) {
		t.Error("base_url in unrelated table must survive")
	}
	if !strings.Contains(stripped, `wire_api = "responses"`) {
		t.Error("other keys in the provider table must survive")
	}

	// Second application is a no-op.
	if again := StripProviderBaseURL(stripped); again != stripped {
		t.Error("StripProviderBaseURL is not idempotent")
	}

	// Documents without a provider key come back unchanged.
	plain := "model = \"gpt-5\"\nbase_url = \"https://root.example.com\"\n"
	if got := StripProviderBaseURL(plain); got != plain {
		t.Errorf("document without model_provider changed: %q", got)
	}
}

func TestMergeBaseURL(t *testing.T) {
	t.Run("empty custom text synthesizes template", func(t *testing.T) {
		out := MergeBaseURL("https://api.example.com/v1", "")
		if !strings.Contains(out, `model_provider = "custom"`) {
			t.Error("template must name the default provider")
		}
		if !strings.Contains(out, `wire_api = "responses"`) {
			t.Error("template must set wire_api")
		}
		if got, ok := ExtractBaseURL(out); !ok || got != "https://api.example.com/v1" {
			t.Errorf("extract after merge = %q, %v", got, ok)
		}
	})

	t.Run("missing provider key is injected", func(t *testing.T) {
		out := MergeBaseURL("https://api.example.com", "model = \"gpt-5\"\n")
		if !strings.HasPrefix(out, `model_provider = "custom"`) {
			t.Errorf("provider key not injected at top: %q", out)
		}
		if !strings.Contains(out, "model = \"gpt-5\"") {
			t.Error("existing content must survive")
		}
	})

	t.Run("existing base_url is overwritten in place", func(t *testing.T) {
		doc := `model_provider = "p"

[model_providers.p]
base_url = "https://old.example.com"
wire_api = "responses"
`
		out := MergeBaseURL("https://new.example.com", doc)
		if strings.Contains(out, "old.example.com") {
			t.Error("old base_url must be gone")
		}
		if got, _ := ExtractBaseURL(out); got != "https://new.example.com" {
			t.Errorf("extract = %q", got)
		}
		if strings.Count(out, "base_url") != 1 {
			t.Errorf("expected exactly one base_url line, got:\n%s", out)
		}
	})

	t.Run("missing base_url is inserted before next table", func(t *testing.T) {
		doc := `model_provider = "p"

[model_providers.p]
name = "p"

[other]
key = "v"
`
		out := MergeBaseURL("https://api.example.com", doc)
		if got, _ := ExtractBaseURL(out); got != "https://api.example.com" {
			t.Errorf("extract = %q", got)
		}
		// The inserted line must land inside the provider table, not in [other].
		providerPart := out[:strings.Index(out, "[other]")]
		if !strings.Contains(providerPart, "base_url") {
			t.Errorf("base_url not inside provider table:\n%s", out)
		}
	})

	t.Run("missing table is appended", func(t *testing.T) {
		doc := "model_provider = \"p\"\nmodel = \"gpt-5\"\n"
		out := MergeBaseURL("https://api.example.com", doc)
		if !strings.Contains(out, "[model_providers.p]") {
			t.Error("provider table not appended")
		}
		if got, _ := ExtractBaseURL(out); got != "https://api.example.com" {
			t.Errorf("extract = %q", got)
		}
	})
}

// *For any* base URL and custom document, extracting after merging returns
// the merged URL, and stripping is idempotent.
func TestMergeExtractRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	urlGen := gen.SliceOfN(8, gen.AlphaLowerChar()).Map(func(cs []rune) string {
		return "https://" + string(cs) + ".example.com/v1"
	})

	docGen := gen.OneConstOf(
		"",
		"model = \"gpt-5\"\n",
		"model_provider = \"kimi\"\n",
		"model_provider = \"kimi\"\n\n[model_providers.kimi]\nname = \"kimi\"\n",
		"model_provider = \"kimi\"\n\n[model_providers.kimi]\nbase_url = \"https://old.example.com\"\n\n[other]\nkey = \"v\"\n",
		"base_url = \"https://root.example.com\"\n",
	)

	properties.Property("extract after merge returns the merged URL", prop.ForAll(
		func(baseURL, doc string) bool {
			merged := MergeBaseURL(baseURL, doc)
			got, ok := ExtractBaseURL(merged)
			return ok && got == baseURL
		},
		urlGen, docGen,
	))

	properties.Property("strip is idempotent", prop.ForAll(
		func(baseURL, doc string) bool {
			once := StripProviderBaseURL(MergeBaseURL(baseURL, doc))
			return StripProviderBaseURL(once) == once
		},
		urlGen, docGen,
	))

	properties.Property("merge after strip restores the URL", prop.ForAll(
		func(baseURL, doc string) bool {
			stripped := StripProviderBaseURL(MergeBaseURL(baseURL, doc))
			got, ok := ExtractBaseURL(MergeBaseURL(baseURL, stripped))
			return ok && got == baseURL
		},
		urlGen, docGen,
	))

	properties.TestingRun(t)
}
