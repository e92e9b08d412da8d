package templates

import (
	"testing"

	"ccswitch/internal/tomledit"
	"ccswitch/internal/utils"
)

func TestAllReturnsIndependentCopies(t *testing.T) {
	first := All()
	first[0].Name = "mutated"
	if second := All(); second[0].Name == "mutated" {
		t.Error("All must hand out copies")
	}
}

func TestPresetsAreWellFormed(t *testing.T) {
	for _, tpl := range All() {
		if tpl.ID != "" {
			t.Errorf("%s: presets carry no id", tpl.Name)
		}
		if tpl.Name == "" {
			t.Error("preset without a name")
		}
		if tpl.Website != "" && !utils.ValidateURL(tpl.Website) {
			t.Errorf("%s: bad website %q", tpl.Name, tpl.Website)
		}
		if tpl.Claude == nil && tpl.Codex == nil {
			t.Errorf("%s: preset needs at least one endpoint", tpl.Name)
		}
		if tpl.Codex != nil {
			if _, ok := tomledit.ExtractBaseURL(tpl.Codex.ConfigTOML); !ok {
				t.Errorf("%s: codex preset needs an extractable base_url", tpl.Name)
			}
		}
		if tpl.Status != nil && !utils.ValidateURL(tpl.Status.URL) {
			t.Errorf("%s: bad status URL %q", tpl.Name, tpl.Status.URL)
		}
	}
}
