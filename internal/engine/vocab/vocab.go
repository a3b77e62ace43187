// Package vocab loads the ordered label vocabulary that maps model output
// dimensions to language codes.
package vocab

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/crimson-sun/langdetect/internal/model"
)

// Vocabulary is an ordered, immutable list of unique labels. Label i names
// output dimension i of the model's score vector.
type Vocabulary struct {
	labels []string
	index  map[string]int
}

// Load reads a newline-delimited label file where the line number
// (0-indexed) is the output dimension. Every failure is a
// model.ConfigurationError.
func Load(path string) (*Vocabulary, error) {
	const op = "load vocabulary"

	info, err := os.Stat(path)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, model.Configf(op, "%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: err}
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("read %s: %w", path, err)}
	}

	v, err := New(labels)
	if err != nil {
		return nil, &model.ConfigurationError{Op: op, Err: fmt.Errorf("%s: %w", path, err)}
	}
	return v, nil
}

// New builds a Vocabulary from labels, which must be non-empty and unique.
// Blank entries are rejected rather than skipped since skipping would shift
// every later index.
func New(labels []string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("empty label at line %d", i+1)
		}
		if prev, dup := index[l]; dup {
			return nil, fmt.Errorf("duplicate label %q at lines %d and %d", l, prev+1, i+1)
		}
		index[l] = i
	}
	cp := make([]string, len(labels))
	copy(cp, labels)
	return &Vocabulary{labels: cp, index: index}, nil
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int {
	return len(v.labels)
}

// Label returns the label for output dimension i.
func (v *Vocabulary) Label(i int) string {
	return v.labels[i]
}

// Index returns the output dimension of label, or -1.
func (v *Vocabulary) Index(label string) int {
	if i, ok := v.index[label]; ok {
		return i
	}
	return -1
}

// Contains reports whether label is in the vocabulary.
func (v *Vocabulary) Contains(label string) bool {
	_, ok := v.index[label]
	return ok
}

// Labels returns a copy of the labels in index order.
func (v *Vocabulary) Labels() []string {
	cp := make([]string, len(v.labels))
	copy(cp, v.labels)
	return cp
}
