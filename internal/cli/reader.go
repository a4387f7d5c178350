package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// LineReader reads user text while honoring context cancellation. A read
// blocked on the terminal keeps running in the background after cancel; the
// caller gets control back immediately.
type LineReader struct {
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewLineReader creates a reader over r.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("reader cannot be nil")
	}
	return &LineReader{reader: bufio.NewReader(r)}
}

type readResult struct {
	err   error
	value string
}

func (r *LineReader) read(ctx context.Context, fn func(*bufio.Reader) (string, error)) (string, error) {
	resultCh := make(chan readResult, 1)

	go func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		value, err := fn(r.reader)
		resultCh <- readResult{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}

// ReadLine reads one trimmed line. At end of input a final unterminated line
// is returned with a nil error; after that io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	line, err := r.read(ctx, func(br *bufio.Reader) (string, error) {
		return br.ReadString('\n')
	})
	if errors.Is(err, io.EOF) && line != "" {
		return strings.TrimSpace(line), nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadAll reads until end of input and returns the text unmodified.
func (r *LineReader) ReadAll(ctx context.Context) (string, error) {
	return r.read(ctx, func(br *bufio.Reader) (string, error) {
		data, err := io.ReadAll(br)
		return string(data), err
	})
}
