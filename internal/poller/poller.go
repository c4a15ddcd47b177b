// Package poller runs the fetch, validate, notify and wait loop.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homework_bot/internal/model"
	"homework_bot/internal/practicum"
)

// Fetcher returns the raw review API answer for statuses changed since fromDate.
type Fetcher interface {
	Fetch(ctx context.Context, fromDate int64) ([]byte, error)
}

// Sender delivers a text message to the recipient chat.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Journal records what each cycle did.
type Journal interface {
	RecordCycle(ctx context.Context, c *model.Cycle) error
	RecordNotification(ctx context.Context, n *model.Notification) error
}

// Session is the state carried from one cycle to the next.
type Session struct {
	Cursor      int64
	LastMessage string
}

// NewSession starts a session at the given from_date cursor.
func NewSession(cursor int64) *Session {
	return &Session{Cursor: cursor}
}

// Poller periodically checks homework statuses and forwards changes.
type Poller struct {
	fetcher  Fetcher
	sender   Sender
	journal  Journal
	log      logrus.FieldLogger
	interval time.Duration
}

// New creates a Poller. journal may be nil.
func New(fetcher Fetcher, sender Sender, journal Journal, log logrus.FieldLogger, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  fetcher,
		sender:   sender,
		journal:  journal,
		log:      log,
		interval: interval,
	}
}

// Run executes cycles until ctx is cancelled, waiting the poll interval after
// each one. It returns nil on cancellation and the error of the first cycle
// that failed in a way the loop does not know how to handle.
func (p *Poller) Run(ctx context.Context, s *Session) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := p.cycle(ctx, s); err != nil {
			return err
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (p *Poller) cycle(ctx context.Context, s *Session) error {
	rec := model.Cycle{
		ID:        uuid.NewString(),
		FromDate:  s.Cursor,
		Outcome:   model.OutcomeOK,
		StartedAt: time.Now().UTC(),
	}
	log := p.log.WithFields(logrus.Fields{"cycle_id": rec.ID, "from_date": rec.FromDate})

	err := p.process(ctx, s, &rec, log)
	if err != nil {
		rec.Outcome = model.OutcomeError
		rec.ErrorKind = practicum.Kind(err)
		rec.Error = err.Error()
	}
	p.recordCycle(ctx, &rec, log)

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		log.WithError(err).Debug("cycle interrupted by shutdown")
		return nil
	case practicum.IsRecoverable(err):
		log.WithError(err).WithField("kind", rec.ErrorKind).Error(describe(err))
		return nil
	default:
		return fmt.Errorf("cycle %s: %w", rec.ID, err)
	}
}

// process fetches and validates the answer, notifies on change and moves the
// cursor. The cursor only moves once the answer has validated.
func (p *Poller) process(ctx context.Context, s *Session, rec *model.Cycle, log logrus.FieldLogger) error {
	raw, err := p.fetcher.Fetch(ctx, s.Cursor)
	if err != nil {
		return err
	}

	resp, err := practicum.CheckResponse(raw)
	if err != nil {
		return err
	}

	message, renderErr := render(resp, log)
	if renderErr == nil {
		p.deliver(ctx, s, rec.ID, message, log)
	}

	rec.CurrentDate = &resp.CurrentDate
	s.Cursor = resp.CurrentDate
	return renderErr
}

// render builds the message for the newest homework. Only element 0 is
// decoded, so a malformed later element cannot fail the cycle.
func render(resp model.Response, log logrus.FieldLogger) (string, error) {
	if len(resp.Homeworks) == 0 {
		log.Debug(practicum.NoNewStatuses)
		return practicum.NoNewStatuses, nil
	}
	hw, err := practicum.DecodeHomework(resp.Homeworks[0])
	if err != nil {
		return "", err
	}
	return practicum.ParseStatus(hw)
}

func (p *Poller) deliver(ctx context.Context, s *Session, cycleID, message string, log logrus.FieldLogger) {
	if message == s.LastMessage {
		log.Debug("status unchanged, nothing to send")
		return
	}

	note := model.Notification{CycleID: cycleID, Text: message}
	if err := p.sender.Send(ctx, message); err != nil {
		log.WithError(err).Error("notification not sent")
		note.Error = err.Error()
	} else {
		log.WithField("text", message).Debug("notification sent")
		note.Delivered = true
	}
	s.LastMessage = message

	if p.journal == nil {
		return
	}
	if err := p.journal.RecordNotification(context.WithoutCancel(ctx), &note); err != nil {
		log.WithError(err).Error("record notification")
	}
}

func (p *Poller) recordCycle(ctx context.Context, rec *model.Cycle, log logrus.FieldLogger) {
	if p.journal == nil {
		return
	}
	if err := p.journal.RecordCycle(context.WithoutCancel(ctx), rec); err != nil {
		log.WithError(err).Error("record cycle")
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, practicum.ErrRequest):
		return "review API request failed"
	case errors.Is(err, practicum.ErrHTTPStatus):
		return "review API answered with a non-200 status"
	case errors.Is(err, practicum.ErrResponseShape):
		return "review API answer has an unexpected shape"
	case errors.Is(err, practicum.ErrEmptyResponse):
		return "review API answer lacks a required field"
	case errors.Is(err, practicum.ErrUnknownStatus):
		return "homework has an undocumented status"
	default:
		return "cycle failed"
	}
}
