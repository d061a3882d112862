// Package engine drives a delivery batch: one transport session, one
// rendered message per recipient, strictly in input order.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soniachalia9-maker/bulkmail/internal/message"
	"github.com/soniachalia9-maker/bulkmail/internal/provider"
	"github.com/soniachalia9-maker/bulkmail/internal/recipient"
)

// Result aggregates per-recipient outcomes for one batch. Sent+Failed
// equals Total when the session opened; both stay zero when session
// setup failed or the batch ran in test mode.
type Result struct {
	Sent   int
	Failed int
	Total  int
	Errors []string
}

// Options controls one batch run.
type Options struct {
	// TestMode renders every message but never opens the session or
	// transmits anything.
	TestMode bool

	// Progress, if set, is called after each recipient is handled with
	// the 1-based index and the send error (nil on success).
	Progress func(index, total int, rcpt recipient.Recipient, err error)
}

// Run sends the rendered campaign to every recipient over the given
// transport. A Connect failure aborts the batch before any attempt and
// is returned as the error; per-recipient failures are recorded in the
// result and do not stop the batch. The session is closed on every
// exit path.
func Run(ctx context.Context, t provider.Transport, r *message.Renderer, rcpts []recipient.Recipient, opts Options) (Result, error) {
	res := Result{Total: len(rcpts)}
	if len(rcpts) == 0 {
		return res, nil
	}

	if opts.TestMode {
		for i, rc := range rcpts {
			_ = r.Message(rc)
			if opts.Progress != nil {
				opts.Progress(i+1, res.Total, rc, nil)
			}
		}
		return res, nil
	}

	if err := t.Connect(ctx); err != nil {
		return res, fmt.Errorf("session setup failed: %w", err)
	}
	defer func() {
		if err := t.Close(); err != nil {
			slog.Warn("failed to close delivery session", "transport", t.Name(), "error", err)
		}
	}()

	for i, rc := range rcpts {
		err := t.Send(ctx, r.Message(rc))
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("failed to send to %s: %v", rc.Email, err))
		} else {
			res.Sent++
		}
		if opts.Progress != nil {
			opts.Progress(i+1, res.Total, rc, err)
		}
	}

	return res, nil
}
