package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

func requestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		ve  models.ValidationError
		ite models.InvalidTransitionError
	)
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ite):
		c.JSON(http.StatusConflict, gin.H{"error": ite.Error(), "from": ite.From, "to": ite.To})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	default:
		logger.Error("request failed",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", requestID(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "request_id": requestID(c)})
	}
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return models.ValidationError{Field: "body", Message: err.Error()}
	}
	return nil
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ValidationError{Field: "id", Message: "must be a positive integer"}
	}
	return id, nil
}

// parsePositive reads a finite decimal greater than zero.
func parsePositive(field, raw string) (decimal.Decimal, error) {
	v, err := parseDecimal(field, raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !v.IsPositive() {
		return decimal.Zero, models.ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return v, nil
}

func parseDecimal(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, models.ValidationError{Field: field, Message: "is required"}
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, models.ValidationError{Field: field, Message: "must be a decimal number"}
	}
	return v, nil
}

// parseOptionalDecimal returns zero for an empty value.
func parseOptionalDecimal(field, raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	return parseDecimal(field, raw)
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty means zero time.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, models.ValidationError{Field: field, Message: "must be YYYY-MM-DD or RFC 3339"}
	}
	return t, nil
}

// parseWindow reads the optional from/to query parameters. A bare "to"
// date covers that whole day.
func parseWindow(c *gin.Context) (repository.Window, error) {
	from, err := parseDate("from", c.Query("from"))
	if err != nil {
		return repository.Window{}, err
	}
	to, err := parseDate("to", c.Query("to"))
	if err != nil {
		return repository.Window{}, err
	}
	if !to.IsZero() && len(strings.TrimSpace(c.Query("to"))) == len("2006-01-02") {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return repository.Window{}, models.ValidationError{Field: "to", Message: "must not be before from"}
	}
	return repository.Window{From: from, To: to}, nil
}
