// Package confirm implements the delete confirmation dialog used by the
// operator CLI. The dialog owns the prompt and its open/closed state; showing
// errors to the operator is left to whatever performs the deletion.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/pukpuk-backend/internal/platform/logger"
)

var (
	ErrNoAction  = errors.New("confirm: one of Mutation or OnConfirm is required")
	ErrAmbiguous = errors.New("confirm: Mutation and OnConfirm are mutually exclusive")
	ErrPending   = errors.New("confirm: a deletion is already in progress")
	ErrClosed    = errors.New("confirm: dialog is closed")
	errNoOutcome = errors.New("confirm: mutation finished without reporting an outcome")
)

type Callbacks struct {
	OnSuccess func()
	OnError   func(error)
}

// Mutation is an asynchronous delete. Mutate must eventually call exactly one
// of the callbacks.
type Mutation interface {
	Mutate(id string, cb Callbacks)
	Pending() bool
}

type Options struct {
	// ItemName is shown in the prompt, e.g. "demand 3f2a" or "all demand data".
	ItemName string
	ItemID   string
	Details  string

	Mutation  Mutation
	OnConfirm func(ctx context.Context) error

	In  io.Reader
	Out io.Writer
	Log *logger.Logger
}

type Dialog struct {
	opts Options
	in   *bufio.Reader
	log  *logger.Logger
	open bool
}

func New(opts Options) (*Dialog, error) {
	switch {
	case opts.Mutation == nil && opts.OnConfirm == nil:
		return nil, ErrNoAction
	case opts.Mutation != nil && opts.OnConfirm != nil:
		return nil, ErrAmbiguous
	}
	if opts.In == nil {
		opts.In = strings.NewReader("")
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Dialog{
		opts: opts,
		in:   bufio.NewReader(opts.In),
		log:  log.With("component", "ConfirmDialog", "item", opts.ItemName),
		open: true,
	}, nil
}

func (d *Dialog) Open() bool { return d.open }

// Confirm performs the deletion once, without prompting. The dialog closes on
// success and stays open on failure so the operator can retry.
func (d *Dialog) Confirm(ctx context.Context) error {
	if !d.open {
		return ErrClosed
	}
	var err error
	if d.opts.Mutation != nil {
		err = d.mutate(ctx)
	} else {
		err = d.opts.OnConfirm(ctx)
	}
	if err != nil {
		if !errors.Is(err, ErrPending) {
			d.log.Error("Delete failed", "error", err)
		}
		return err
	}
	d.log.Info("Delete confirmed")
	d.open = false
	return nil
}

func (d *Dialog) mutate(ctx context.Context) error {
	m := d.opts.Mutation
	if m.Pending() {
		return ErrPending
	}
	done := make(chan error, 1)
	m.Mutate(d.opts.ItemID, Callbacks{
		OnSuccess: func() { done <- nil },
		OnError: func(err error) {
			if err == nil {
				err = errNoOutcome
			}
			done <- err
		},
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run prompts until the operator declines or the deletion succeeds. It
// reports whether anything was deleted.
func (d *Dialog) Run(ctx context.Context) (bool, error) {
	for d.open {
		if d.opts.Details != "" {
			fmt.Fprintln(d.opts.Out, d.opts.Details)
		}
		fmt.Fprintf(d.opts.Out, "Delete %s? This cannot be undone. (y/N): ", d.opts.ItemName)

		answer, err := d.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(d.opts.Out, "Cancelled.")
			d.open = false
			return false, nil
		}

		if err := d.Confirm(ctx); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			if errors.Is(err, ErrPending) {
				fmt.Fprintln(d.opts.Out, "A deletion is already in progress.")
			}
			continue
		}
		return true, nil
	}
	return false, ErrClosed
}
