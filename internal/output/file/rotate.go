package file

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// rotatingWriter is a buffered append-only file that moves itself aside to
// {path}.1 when a write would take it past maxSize. Older generations shift
// up by one; the one past keep is removed. Callers serialize access.
type rotatingWriter struct {
	path    string
	maxSize int64
	keep    int
	bufSize int

	f    *os.File
	w    *bufio.Writer
	size int64
}

func openRotating(path string, s settings) (*rotatingWriter, error) {
	rw := &rotatingWriter{path: path, maxSize: s.maxSize, keep: s.keep, bufSize: s.bufSize}
	if err := rw.open(); err != nil {
		return nil, err
	}
	return rw, nil
}

func (rw *rotatingWriter) open() error {
	f, err := os.OpenFile(rw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", rw.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("stat %s: %w", rw.path, err)
	}
	rw.f = f
	rw.w = bufio.NewWriterSize(f, rw.bufSize)
	rw.size = info.Size()
	return nil
}

// Write appends p. An empty file always takes p, so a line longer than
// maxSize still lands somewhere.
func (rw *rotatingWriter) Write(p []byte) (int, error) {
	if rw.maxSize > 0 && rw.size > 0 && rw.size+int64(len(p)) > rw.maxSize {
		if err := rw.rotate(); err != nil {
			return 0, fmt.Errorf("rotate %s: %w", rw.path, err)
		}
	}
	n, err := rw.w.Write(p)
	rw.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", rw.path, err)
	}
	return n, nil
}

func (rw *rotatingWriter) rotate() error {
	if err := rw.closeFile(); err != nil {
		return err
	}
	if err := os.Remove(rw.generation(rw.keep)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for i := rw.keep - 1; i >= 1; i-- {
		if err := os.Rename(rw.generation(i), rw.generation(i+1)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.Rename(rw.path, rw.generation(1)); err != nil {
		return err
	}
	return rw.open()
}

func (rw *rotatingWriter) generation(i int) string {
	return fmt.Sprintf("%s.%d", rw.path, i)
}

func (rw *rotatingWriter) closeFile() error {
	flushErr := rw.w.Flush()
	closeErr := rw.f.Close()
	return errors.Join(flushErr, closeErr)
}

// Close flushes and closes the current file.
func (rw *rotatingWriter) Close() error {
	return rw.closeFile()
}
