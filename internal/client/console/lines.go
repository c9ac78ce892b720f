// Package console lets the REPL, its prompts and the software sensor share
// one terminal input stream.
package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type readResult struct {
	line string
	err  error
}

// LineReader hands out input one line at a time. At most one read of the
// underlying stream is in flight. A read abandoned through ctx keeps
// running, and its line goes to the next ReadLine call instead of being
// lost. Callers take turns: ReadLine is not meant to be called from two
// goroutines at once.
type LineReader struct {
	r *bufio.Reader

	mu      sync.Mutex
	pending chan readResult
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReader(r)}
}

// ReadLine returns the next line without its line ending. A final line
// without a newline is returned with a nil error; io.EOF follows on the
// next call.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	if l.pending == nil {
		ch := make(chan readResult, 1)
		l.pending = ch
		go func() {
			line, err := l.r.ReadString('\n')
			ch <- readResult{line, err}
		}()
	}
	ch := l.pending
	l.mu.Unlock()

	select {
	case res := <-ch:
		l.mu.Lock()
		l.pending = nil
		l.mu.Unlock()

		line := strings.TrimRight(res.line, "\r\n")
		if res.err != nil {
			if errors.Is(res.err, io.EOF) && res.line != "" {
				return line, nil
			}
			return "", res.err
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
