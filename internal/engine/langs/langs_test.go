package langs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	n := Default()

	if n.Len() != 37 {
		t.Errorf("expected 37 built-in languages, got %d", n.Len())
	}
	tests := map[string]string{
		"eng": "English",
		"fra": "French",
		"ron": "Moldavian, Moldovan, Romanian",
		"hbs": "Serbo-Croatian",
	}
	for code, want := range tests {
		if got := n.Lookup(code); got != want {
			t.Errorf("Lookup(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	n := Default()
	for _, code := range []string{"", "xxx", "ENG", "en"} {
		if got := n.Lookup(code); got != Unknown {
			t.Errorf("Lookup(%q) = %q, want %q", code, got, Unknown)
		}
	}
}

func TestMapReturnsCopy(t *testing.T) {
	n := Default()
	m := n.Map()
	m["eng"] = "changed"
	delete(m, "fra")

	if n.Lookup("eng") != "English" || n.Lookup("fra") != "French" {
		t.Error("mutating Map() result changed the table")
	}
}

func TestNewCopiesInput(t *testing.T) {
	src := map[string]string{"eng": "English"}
	n := New(src)
	src["eng"] = "changed"

	if n.Lookup("eng") != "English" {
		t.Error("New did not copy its input")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "languages.yaml")
	content := "eng: English\nfra: Français\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if n.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", n.Len())
	}
	if n.Lookup("fra") != "Français" {
		t.Errorf("Lookup(fra) = %q", n.Lookup("fra"))
	}
	// The file replaces the built-in table.
	if n.Lookup("deu") != Unknown {
		t.Errorf("expected deu to be Unknown, got %q", n.Lookup("deu"))
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.yaml")},
		{"empty", write("empty.yaml", "")},
		{"not a mapping", write("list.yaml", "- eng\n- fra\n")},
		{"empty name", write("blank.yaml", "eng: \"\"\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFile(tc.path); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestIsISO639(t *testing.T) {
	for _, code := range []string{"eng", "fra", "deu", "en"} {
		if !IsISO639(code) {
			t.Errorf("expected %q to be a language code", code)
		}
	}
	for _, code := range []string{"", "not-a-code", "12"} {
		if IsISO639(code) {
			t.Errorf("expected %q not to be a language code", code)
		}
	}
}
