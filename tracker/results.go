package tracker

import (
	"context"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/delivery"
	"github.com/use-agent/mindtrace/extract"
	"github.com/use-agent/mindtrace/identity"
	"github.com/use-agent/mindtrace/models"
	"github.com/use-agent/mindtrace/pagesource"
)

// ResultsPage drives the results page: retrieve the stored session, poll for
// rendering to settle, extract the canonical record, and deliver it when
// complete.
type ResultsPage struct {
	cfg    config.TrackerConfig
	ids    *identity.Manager
	client *delivery.Client
	source pagesource.Source
	userID string
}

// NewResultsPage creates the results controller.
func NewResultsPage(cfg config.TrackerConfig, ids *identity.Manager, client *delivery.Client, source pagesource.Source, userID string) *ResultsPage {
	return &ResultsPage{cfg: cfg, ids: ids, client: client, source: source, userID: userID}
}

// Run executes the whole results-page flow. Without a stored session id the
// page cannot be correlated and nothing happens. A readiness timeout or an
// incomplete extraction keeps the session id in place so a reload can retry.
func (r *ResultsPage) Run(ctx context.Context) error {
	sessionID, ok, err := r.ids.StoredSession()
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("session id missing on results page, cannot link results to session")
		return models.NewTrackError(models.ErrCodeNoSession, "no stored session id", nil)
	}
	slog.Info("results tracker initialized", "userId", r.userID, "sessionId", sessionID)

	doc, err := r.waitReady(ctx)
	if err != nil {
		return err
	}

	result := extract.ExtractResult(doc, r.source.URL())
	if !result.Complete() {
		slog.Error("failed to extract complete result data, aborting send; session id kept for retry",
			"mbtiResult", result.MBTIResult,
			"mbtiCode", result.MBTICode,
		)
		return models.NewTrackError(models.ErrCodeIncomplete, "result record incomplete", nil)
	}

	r.client.Send(ctx, models.NewResult(r.userID, sessionID, result), false)

	if err := r.ids.ClearSession(); err != nil {
		return err
	}
	slog.Info("result data send attempted, cleared session id from storage")
	return nil
}

// waitReady polls the source on a fixed cadence until the page has rendered
// into a known layout, giving up after the configured attempt budget.
func (r *ResultsPage) waitReady(ctx context.Context) (*goquery.Document, error) {
	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for attempts := 1; ; attempts++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		doc, err := pagesource.Document(ctx, r.source)
		if err != nil {
			slog.Warn("snapshot failed during readiness poll", "attempt", attempts, "error", err)
		} else if extract.ResultsReady(doc) {
			slog.Info("results content detected",
				"attempts", attempts,
				"elapsed", time.Duration(attempts)*r.cfg.PollInterval,
			)
			return doc, nil
		}

		if attempts >= r.cfg.MaxPollAttempts {
			slog.Warn("timed out waiting for results content",
				"elapsed", time.Duration(r.cfg.MaxPollAttempts)*r.cfg.PollInterval,
			)
			return nil, models.NewTrackError(models.ErrCodeReadyTimeout, "results page never became ready", nil)
		}
		if attempts%10 == 0 {
			slog.Debug("still waiting for results content",
				"elapsed", time.Duration(attempts)*r.cfg.PollInterval,
			)
		}
	}
}
