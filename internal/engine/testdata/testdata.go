// Package testdata embeds a small multilingual corpus for detection tests.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry is a sentence with the language it is written in.
type CorpusEntry struct {
	Text         string `json:"text"`
	ExpectedLang string `json:"expected_lang"`
	Description  string `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}

// Texts returns the corpus sentences in file order.
func Texts(entries []CorpusEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}
