package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
)

const defaultAuditLimit = 100

// AuditLister reads the audit trail.
type AuditLister interface {
	List(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// Summarizer builds period summaries.
type Summarizer interface {
	Summarize(ctx context.Context, from, to time.Time) (models.Summary, error)
}

// ReportsHandler serves /api/audit and /api/reports.
type ReportsHandler struct {
	audit   AuditLister
	reports Summarizer
	logger  *zap.Logger
	now     func() time.Time
}

func NewReportsHandler(audit AuditLister, reports Summarizer, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{audit: audit, reports: reports, logger: logger, now: time.Now}
}

// Audit returns the newest events first, ?limit= defaulting to 100.
func (h *ReportsHandler) Audit(c *gin.Context) {
	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, h.logger, models.ValidationError{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	events, err := h.audit.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Summary aggregates ?from=&to=. Without bounds it covers the last 7 days.
func (h *ReportsHandler) Summary(c *gin.Context) {
	w, err := parseWindow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if w.To.IsZero() {
		w.To = h.now()
	}
	if w.From.IsZero() {
		w.From = w.To.AddDate(0, 0, -7)
	}

	sum, err := h.reports.Summarize(c.Request.Context(), w.From, w.To)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
