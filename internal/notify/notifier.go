// Package notify sends plain-text HTTP notifications for store write failures
// and daily reminders. The primary use case is ntfy.sh, but any HTTP webhook
// works.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTitle is sent as X-Title when none is configured.
const DefaultTitle = "Organiser"

// Notifier posts plain-text HTTP notifications for selected events.
type Notifier struct {
	url          string
	title        string
	onWriteError bool
	onReminder   bool
	client       *http.Client
	logger       *zap.Logger
	wg           sync.WaitGroup
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// DefaultTitle is used instead.
func New(notifURL, title string, onWriteError, onReminder bool, logger *zap.Logger) *Notifier {
	if title == "" {
		title = DefaultTitle
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		url:          notifURL,
		title:        title,
		onWriteError: onWriteError,
		onReminder:   onReminder,
		client:       &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
	}
}

// Enabled reports whether a URL is configured.
func (n *Notifier) Enabled() bool { return n != nil && n.url != "" }

// WriteError is a store warning handler. It fires an asynchronous POST when
// write-error notifications are on, so a slow endpoint never blocks a
// mutation.
func (n *Notifier) WriteError(err error) {
	if !n.Enabled() || !n.onWriteError || err == nil {
		return
	}
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.client.Timeout)
		defer cancel()
		if perr := n.post(ctx, "Organiser could not save your data: "+err.Error()); perr != nil {
			n.logger.Debug("write-error notification failed", zap.Error(perr))
		}
	}()
}

// Remind posts message synchronously when reminders are on. It reports
// whether a notification was sent.
func (n *Notifier) Remind(ctx context.Context, message string) (bool, error) {
	if !n.Enabled() || !n.onReminder {
		return false, nil
	}
	if err := n.post(ctx, message); err != nil {
		return false, err
	}
	return true, nil
}

// Wait blocks until asynchronous notifications have been sent.
func (n *Notifier) Wait() { n.wg.Wait() }

// post sends a plain-text POST to the configured URL.
func (n *Notifier) post(ctx context.Context, message string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: post: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: post: unexpected status %s", resp.Status)
	}
	return nil
}
