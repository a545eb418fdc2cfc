package ingest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mindtrace/models"
)

// maxPayloadSize caps one request body (1 MB is generous for 60 answers).
const maxPayloadSize = 1 << 20

// envelope is the part of the body the collector validates; the rest is
// stored opaque.
type envelope struct {
	Type      string `json:"type"`
	EventName string `json:"eventName"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// LogAnswers accepts one tracker payload: validates the envelope, persists
// the raw body, and acknowledges with a success JSON.
func LogAnswers(rec Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadSize))
		if err != nil {
			fail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "cannot read body")
			return
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			fail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "body is not valid JSON")
			return
		}

		switch env.Type {
		case models.TypeAnswers, models.TypeResult:
		case models.TypeEvent:
			if env.EventName != models.EventTestStarted && env.EventName != models.EventTestFinished {
				fail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "unknown event name")
				return
			}
		default:
			fail(c, http.StatusBadRequest, models.ErrCodeInvalidInput, "unknown payload type")
			return
		}

		if env.UserID == "" || env.SessionID == "" {
			fail(c, http.StatusBadRequest, models.ErrCodeMissingIdentity, "payload missing userId or sessionId")
			return
		}

		if err := rec.AppendRecord(env.Type, env.UserID, env.SessionID, body); err != nil {
			slog.Error("failed to persist record", "type", env.Type, "error", err)
			fail(c, http.StatusInternalServerError, models.ErrCodeInternal, "failed to persist record")
			return
		}

		slog.Info("record accepted",
			"type", env.Type,
			"event", env.EventName,
			"sessionId", env.SessionID,
		)
		c.JSON(http.StatusOK, models.IngestResponse{Success: true})
	}
}

// Health reports collector liveness and uptime.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(startTime).String(),
		})
	}
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.IngestResponse{
		Success: false,
		Error:   &models.ErrorDetail{Code: code, Message: message},
	})
}
