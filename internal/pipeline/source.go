package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Lines streams the non-blank lines of r, without trailing CR, until EOF or
// cancellation. The error channel yields at most one read error and is
// closed together with the line channel.
func Lines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)

		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			line := strings.TrimRight(sc.Text(), "\r")
			if strings.TrimSpace(line) == "" {
				continue
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errc <- fmt.Errorf("read input: %w", err)
		}
	}()
	return lines, errc
}

// ReadLines collects every non-blank line of r.
func ReadLines(r io.Reader) ([]string, error) {
	lines, errc := Lines(context.Background(), r)
	var out []string
	for line := range lines {
		out = append(out, line)
	}
	return out, <-errc
}
