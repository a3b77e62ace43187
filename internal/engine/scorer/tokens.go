package scorer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	padID int64 = 0
	oovID int64 = 1

	// defaultMaxSeqLen caps sequences for models with a dynamic sequence axis.
	defaultMaxSeqLen = 256
)

// tokenVocab maps input tokens to model input ids. The id of a token is its
// line number (0-indexed); line 0 is padding and line 1 the out-of-vocabulary
// token, so neither is looked up.
type tokenVocab struct {
	tokenToID map[string]int64
	size      int
}

// loadTokens reads a tokens.txt file, one token per line.
func loadTokens(path string) (*tokenVocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}
	defer f.Close()

	tokenToID := make(map[string]int64, 1024)
	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tok := strings.TrimSuffix(scanner.Text(), "\r")
		if n > int(oovID) && tok != "" {
			if _, dup := tokenToID[tok]; !dup {
				tokenToID[tok] = int64(n)
			}
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("tokens: read error: %w", err)
	}
	if n <= int(oovID)+1 {
		return nil, fmt.Errorf("tokens: %s has no tokens beyond padding and OOV", path)
	}
	return &tokenVocab{tokenToID: tokenToID, size: n}, nil
}

// lookup returns the id of tok, or the OOV id.
func (v *tokenVocab) lookup(tok string) int64 {
	if id, ok := v.tokenToID[tok]; ok {
		return id
	}
	return oovID
}

// encoded holds a batch of input ids, flat [batchSize * seqLen].
type encoded struct {
	ids       []int64
	batchSize int64
	seqLen    int64
}

// encode splits each character-spaced text on spaces and maps the tokens to
// ids. With fixedLen > 0 every row is truncated or padded to fixedLen;
// otherwise rows are padded to the longest row, capped at maxLen.
func (v *tokenVocab) encode(texts []string, fixedLen, maxLen int) encoded {
	rows := make([][]int64, len(texts))
	longest := 0
	for i, text := range texts {
		var row []int64
		for _, tok := range strings.Split(text, " ") {
			if tok == "" {
				continue
			}
			row = append(row, v.lookup(tok))
		}
		rows[i] = row
		if len(row) > longest {
			longest = len(row)
		}
	}

	seqLen := fixedLen
	if seqLen <= 0 {
		seqLen = longest
		if maxLen > 0 && seqLen > maxLen {
			seqLen = maxLen
		}
		if seqLen == 0 {
			seqLen = 1
		}
	}

	ids := make([]int64, len(texts)*seqLen)
	for i, row := range rows {
		if len(row) > seqLen {
			row = row[:seqLen]
		}
		copy(ids[i*seqLen:], row)
	}
	// Remaining positions stay padID.
	return encoded{ids: ids, batchSize: int64(len(texts)), seqLen: int64(seqLen)}
}
