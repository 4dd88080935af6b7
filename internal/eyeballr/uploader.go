package eyeballr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/0w0mewo/eyeballr-cli/internal/eyeballr/constants"
	"github.com/0w0mewo/eyeballr-cli/internal/models"
)

const (
	DefaultPollInterval     = 2 * time.Second
	DefaultCompleteAttempts = 20
)

type Options struct {
	PollInterval time.Duration
	// CompleteAttempts caps the completion poll.
	CompleteAttempts int
	// ReadyTimeout bounds the readiness poll, zero leaves it unbounded.
	ReadyTimeout time.Duration
	// Lenient reports success when the completion poll runs out of attempts.
	Lenient bool
	// UID seeds the UID cookie on the ticket request.
	UID string
}

func DefaultOptions() Options {
	return Options{
		PollInterval:     DefaultPollInterval,
		CompleteAttempts: DefaultCompleteAttempts,
	}
}

// Uploader drives one upload run: ticket, uploads, readiness, merge, completion.
type Uploader struct {
	client *Client
	opts   Options
	out    io.Writer
}

// NewUploader echoes raw response bodies and progress to out.
func NewUploader(client *Client, opts Options, out io.Writer) *Uploader {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.CompleteAttempts <= 0 {
		opts.CompleteAttempts = DefaultCompleteAttempts
	}
	if out == nil {
		out = io.Discard
	}

	return &Uploader{
		client: client,
		opts:   opts,
		out:    out,
	}
}

// Run performs the whole workflow against baseURL. Files are uploaded one
// after another in the given order and any failure aborts the run.
func (u *Uploader) Run(ctx context.Context, baseURL string, files []string) error {
	if len(files) == 0 {
		return constants.ErrNoFiles
	}

	sess := NewSession(baseURL)
	if u.opts.UID != "" {
		sess.SetCookie(constants.UIDCookie, u.opts.UID)
	}

	slog.Info("Requesting ticket", "url", sess.BaseURL)
	body, err := u.client.Ticket(sess)
	if err != nil {
		return fmt.Errorf("ticket: %w", err)
	}
	u.echo(body)
	slog.Info("Got ticket", "ticket", sess.Ticket)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := u.upload(sess, file); err != nil {
			return err
		}
	}

	if err := u.waitReady(ctx, sess); err != nil {
		return err
	}

	slog.Info("Merging", "ticket", sess.Ticket)
	body, err = u.client.Merge(sess)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	u.echo(body)

	if err := u.waitComplete(ctx, sess); err != nil {
		return err
	}

	fmt.Fprintln(u.out, "done")
	return nil
}

func (u *Uploader) upload(sess *Session, file string) error {
	payload, err := models.GenUploadReq(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}

	slog.Info("Uploading", "file", file, "size", payload.Size, "ticket", sess.Ticket)
	slog.Debug("Payload", "file", file, "sha256", payload.Checksum)

	body, err := u.client.Upload(sess, &payload)
	if err != nil {
		return fmt.Errorf("upload %s: %w", file, err)
	}
	u.echo(body)

	return nil
}

func (u *Uploader) waitReady(ctx context.Context, sess *Session) error {
	slog.Info("Waiting for readiness", "ticket", sess.Ticket)

	pollCtx := ctx
	if u.opts.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, u.opts.ReadyTimeout)
		defer cancel()
	}

	attempts, _, err := poll(pollCtx, u.opts.PollInterval, 0, func(attempt int) (bool, error) {
		ready, body, err := u.client.Ready(sess)
		if err != nil {
			return false, err
		}
		slog.Debug("Ready poll", "attempt", attempt, "ready", ready)
		u.echo(body)
		return ready, nil
	})
	if err != nil {
		// the caller's own cancellation is not a readiness timeout
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("ready after %d attempts: %w", attempts, constants.ErrReadyTimeout)
		}
		return fmt.Errorf("ready: %w", err)
	}

	slog.Info("Ready", "ticket", sess.Ticket, "attempts", attempts)
	return nil
}

func (u *Uploader) waitComplete(ctx context.Context, sess *Session) error {
	slog.Info("Waiting for completion", "ticket", sess.Ticket)

	attempts, complete, err := poll(ctx, u.opts.PollInterval, u.opts.CompleteAttempts, func(attempt int) (bool, error) {
		complete, body, err := u.client.Complete(sess)
		if err != nil {
			return false, err
		}
		slog.Debug("Complete poll", "attempt", attempt, "complete", complete)
		u.echo(body)
		return complete, nil
	})
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	if !complete {
		if !u.opts.Lenient {
			return fmt.Errorf("complete after %d attempts: %w", attempts, constants.ErrNotComplete)
		}
		slog.Warn("Completion never reported, assuming done", "ticket", sess.Ticket, "attempts", attempts)
		return nil
	}

	slog.Info("Complete", "ticket", sess.Ticket, "attempts", attempts)
	return nil
}

func (u *Uploader) echo(body []byte) {
	if len(body) == 0 {
		return
	}
	fmt.Fprintf(u.out, "%s\n", body)
}
