// Package tracker orchestrates the page controllers: observe a quiz or
// results page through a Source, extract records, and hand them to delivery.
package tracker

import (
	"context"
	"log/slog"
	"strings"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/delivery"
	"github.com/use-agent/mindtrace/extract"
	"github.com/use-agent/mindtrace/identity"
	"github.com/use-agent/mindtrace/models"
	"github.com/use-agent/mindtrace/pagesource"
)

// QuizPage drives the quiz page: emit a start marker on first arrival, and
// on each action-control activation extract answers and deliver them, using
// the durable channel when the activation is about to navigate away.
type QuizPage struct {
	cfg       config.TrackerConfig
	ids       *identity.Manager
	client    *delivery.Client
	source    pagesource.Source
	userID    string
	sessionID string
}

// NewQuizPage creates the quiz controller. The session identifier is minted
// here, once, and persisted so the results page can retrieve it after
// navigation.
func NewQuizPage(cfg config.TrackerConfig, ids *identity.Manager, client *delivery.Client, source pagesource.Source, userID string) (*QuizPage, error) {
	sessionID, err := ids.StartNewSession()
	if err != nil {
		return nil, err
	}
	if err := ids.PersistSession(sessionID); err != nil {
		return nil, err
	}
	slog.Info("quiz tracker initialized", "userId", userID, "sessionId", sessionID)

	return &QuizPage{
		cfg:       cfg,
		ids:       ids,
		client:    client,
		source:    source,
		userID:    userID,
		sessionID: sessionID,
	}, nil
}

// SessionID returns the session identifier minted at initialization.
func (q *QuizPage) SessionID() string { return q.sessionID }

// answerReader is implemented by sources that can read the quiz's live answer
// state in-page.
type answerReader interface {
	Answers(ctx context.Context) ([]models.Answer, error)
}

// answers reads the page's answer records. A live source is asked in-page:
// radio selections sit in the checked property, which a serialized DOM
// snapshot does not carry. Snapshot-only sources go through the DOM extractor.
func (q *QuizPage) answers(ctx context.Context) ([]models.Answer, error) {
	if r, ok := q.source.(answerReader); ok {
		return r.Answers(ctx)
	}
	doc, err := pagesource.Document(ctx, q.source)
	if err != nil {
		return nil, err
	}
	return extract.ExtractAnswers(doc), nil
}

// Start performs the initial-load check: if this is the opening page with
// nothing answered, a test_started event goes out on the normal channel.
// Called exactly once, before any clicks are handled.
func (q *QuizPage) Start(ctx context.Context) error {
	answers, err := q.answers(ctx)
	if err != nil {
		return err
	}
	if extract.IsFirstUnansweredPage(answers) {
		slog.Info("detected first page visit (unanswered), sending start event")
		q.client.Send(ctx, models.NewEvent(models.EventTestStarted, q.userID, q.sessionID), false)
	}
	return nil
}

// HandleClick processes one qualifying activation of the action control.
// It returns true when the activation was the terminal "see results" control,
// after which the page will navigate to the profile.
func (q *QuizPage) HandleClick(ctx context.Context, click pagesource.Click) (terminal bool, err error) {
	slog.Info("action control activated, extracting answers", "aria", click.AriaLabel, "text", click.Text)

	answers, err := q.answers(ctx)
	if err != nil {
		return false, err
	}

	var payload *models.AnswersPayload
	if len(answers) > 0 {
		payload = models.NewAnswers(q.userID, q.sessionID, answers)
	}

	if !isSeeResults(click) {
		if payload != nil {
			q.client.Send(ctx, payload, false)
		} else {
			slog.Info("no answers found on this page click")
		}
		return false, nil
	}

	// Terminal click: navigation follows immediately, so both sends go out on
	// the durable channel — answers first, then the finish marker.
	slog.Info("see-results control activated")
	if payload != nil {
		q.client.Send(ctx, payload, true)
	} else {
		slog.Info("no final answers found on this page click")
	}
	q.client.Send(ctx, models.NewEvent(models.EventTestFinished, q.userID, q.sessionID), true)
	return true, nil
}

// Run consumes clicks until the context ends or the terminal activation is
// seen, then returns so the caller can follow the navigation.
func (q *QuizPage) Run(ctx context.Context, clicks <-chan pagesource.Click) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case click, ok := <-clicks:
			if !ok {
				return nil
			}
			terminal, err := q.HandleClick(ctx, click)
			if err != nil {
				slog.Error("failed to handle click", "error", err)
				continue
			}
			if terminal {
				return nil
			}
		}
	}
}

// isSeeResults detects the final submit control by its accessible label or
// visible text.
func isSeeResults(click pagesource.Click) bool {
	return strings.Contains(click.AriaLabel, "Submit the test and see results") ||
		click.Text == "See results"
}
