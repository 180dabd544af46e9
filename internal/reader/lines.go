package reader

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/tapcard/internal/card"
)

// Lines reads one hex identifier per line. Blank lines and lines starting
// with '#' are ignored; lines that do not parse are logged and skipped.
//
// Scanning starts on the first StartListening and runs until the input is
// exhausted. Done is closed at that point and Err reports any read error.
type Lines struct {
	r      io.Reader
	logger *slog.Logger

	once sync.Once
	done chan struct{}

	mu       sync.Mutex
	callback func([]byte)
	err      error
}

// NewLines creates a Lines source over r. A nil logger means slog.Default().
func NewLines(r io.Reader, logger *slog.Logger) *Lines {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lines{r: r, logger: logger, done: make(chan struct{})}
}

// StartListening implements capture.Source.
func (l *Lines) StartListening(onIdentifier func([]byte)) {
	l.mu.Lock()
	l.callback = onIdentifier
	l.mu.Unlock()

	l.once.Do(func() {
		go l.scan()
	})
}

// StopListening implements capture.Source.
func (l *Lines) StopListening() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callback = nil
}

// Done is closed once the input is exhausted.
func (l *Lines) Done() <-chan struct{} {
	return l.done
}

// Err returns the read error, if any, after Done is closed.
func (l *Lines) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Lines) scan() {
	defer close(l.done)

	sc := bufio.NewScanner(l.r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ident, err := card.ParseIdentifier(line)
		if err != nil {
			l.logger.Warn("skipping unreadable identifier", "line", lineNo, "error", err)
			continue
		}

		l.mu.Lock()
		cb := l.callback
		l.mu.Unlock()
		if cb == nil {
			l.logger.Debug("identifier dropped, not listening", "line", lineNo, "identifier", ident)
			continue
		}
		cb(ident)
	}

	if err := sc.Err(); err != nil {
		l.mu.Lock()
		l.err = err
		l.mu.Unlock()
	}
}
