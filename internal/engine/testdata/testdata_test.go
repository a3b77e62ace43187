package testdata

import (
	"testing"

	"github.com/crimson-sun/langdetect/internal/engine/langs"
)

func TestLoadCorpus(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("corpus is empty")
	}

	names := langs.Default()
	for i, e := range entries {
		if e.Text == "" {
			t.Errorf("entry[%d] has empty text", i)
		}
		if names.Lookup(e.ExpectedLang) == langs.Unknown {
			t.Errorf("entry[%d] expects %q which has no display name", i, e.ExpectedLang)
		}
	}
}

func TestTexts(t *testing.T) {
	entries := []CorpusEntry{{Text: "a"}, {Text: "b"}}
	got := Texts(entries)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Texts() = %v", got)
	}
}
