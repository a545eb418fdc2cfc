package tracker

import (
	"context"
	"log/slog"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/delivery"
	"github.com/use-agent/mindtrace/identity"
	"github.com/use-agent/mindtrace/pagesource"
	"github.com/use-agent/mindtrace/storage"
)

// URL fragments the site routes on.
const (
	QuizPathFragment    = "/free-personality-test"
	ProfilePathFragment = "/profiles/"
)

// Run drives the full live flow against a browser session, routing by the
// page's current URL: quiz tracking (then following the terminal navigation
// to the profile), a bare results page, or nothing on unrecognized pages.
func Run(ctx context.Context, cfg *config.Config, store storage.Store, browser *pagesource.Browser, client *delivery.Client) error {
	ids := identity.NewManager(store)
	userID, err := ids.GetOrCreateUserID()
	if err != nil {
		slog.Error("could not get or create user id, tracker cannot run", "error", err)
		return err
	}

	switch {
	case browser.OnPath(QuizPathFragment):
		quiz, err := NewQuizPage(cfg.Tracker, ids, client, browser, userID)
		if err != nil {
			return err
		}
		if err := quiz.Start(ctx); err != nil {
			return err
		}
		clicks, err := browser.Clicks(ctx)
		if err != nil {
			return err
		}
		if err := quiz.Run(ctx, clicks); err != nil {
			return err
		}
		if err := browser.WaitNavigation(ctx, ProfilePathFragment); err != nil {
			slog.Warn("terminal click did not reach the profile page", "error", err)
			return nil
		}
		return NewResultsPage(cfg.Tracker, ids, client, browser, userID).Run(ctx)

	case browser.OnPath(ProfilePathFragment):
		return NewResultsPage(cfg.Tracker, ids, client, browser, userID).Run(ctx)

	default:
		slog.Info("tracker loaded on an unrecognized page", "url", browser.URL())
		return nil
	}
}

// RunSnapshot drives the results-page flow against a non-interactive source
// (HTTP snapshot of the profile page).
func RunSnapshot(ctx context.Context, cfg *config.Config, store storage.Store, source pagesource.Source, client *delivery.Client) error {
	ids := identity.NewManager(store)
	userID, err := ids.GetOrCreateUserID()
	if err != nil {
		slog.Error("could not get or create user id, tracker cannot run", "error", err)
		return err
	}
	return NewResultsPage(cfg.Tracker, ids, client, source, userID).Run(ctx)
}
