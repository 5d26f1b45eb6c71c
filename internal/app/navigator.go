package app

import (
	"fmt"
	"io"
	"sync"

	"parcelbee-client/internal/domain"
	"parcelbee-client/internal/logx"
)

// Navigator tells the user where the client wants them next and lets
// long-running commands react to it.
type Navigator struct {
	out    io.Writer
	logger logx.Logger

	mu        sync.Mutex
	listeners []func(domain.Page)
}

// NewNavigator creates a Navigator printing to out.
func NewNavigator(out io.Writer, logger logx.Logger) *Navigator {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Navigator{out: out, logger: logger}
}

// Navigate announces page and notifies listeners.
func (n *Navigator) Navigate(page domain.Page) {
	n.logger.Info("navigate", logx.String("page", string(page)))
	if n.out != nil {
		_, _ = fmt.Fprintf(n.out, "-> %s\n", page)
	}

	n.mu.Lock()
	ls := append(([]func(domain.Page))(nil), n.listeners...)
	n.mu.Unlock()
	for _, fn := range ls {
		fn(page)
	}
}

// OnNavigate registers fn to be called on every navigation.
func (n *Navigator) OnNavigate(fn func(domain.Page)) {
	n.mu.Lock()
	n.listeners = append(n.listeners, fn)
	n.mu.Unlock()
}
