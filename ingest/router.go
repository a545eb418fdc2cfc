// Package ingest implements the logging endpoint the tracker delivers to:
// a single collector route accepting the event, answers, and result payload
// shapes, persisting them to storage.
package ingest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/mindtrace/config"
)

// Recorder persists accepted payloads.
type Recorder interface {
	AppendRecord(recordType, userID, sessionID string, body []byte) error
}

// NewRouter creates a configured Gin engine.
//
// Middleware chain: Recovery → Logger → RateLimit (collector route only).
// Health stays outside the rate limit so monitoring probes always work.
// The collector contract carries no authentication.
func NewRouter(rec Recorder, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/api/v1/health", Health(startTime))

	limited := r.Group("")
	limited.Use(RateLimit(cfg.RateLimit))
	limited.POST("/api/log-answers", LogAnswers(rec))

	return r
}
