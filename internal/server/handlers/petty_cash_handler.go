package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/service/ledger"
)

// PettyCashService is the recalculator surface exposed over HTTP.
type PettyCashService interface {
	Add(ctx context.Context, ledger models.LedgerName, req ledger.AddRequest) (models.EntryResult, error)
	Update(ctx context.Context, ledger models.LedgerName, id int64, req ledger.UpdateRequest) (models.EntryResult, error)
	Delete(ctx context.Context, ledger models.LedgerName, id int64) (models.DeleteResult, error)
	List(ctx context.Context, ledger models.LedgerName) ([]models.LedgerEntry, error)
	Verify(ctx context.Context, ledger models.LedgerName) ([]models.BalanceMismatch, error)
}

// PettyCashHandler serves /api/petty-cash.
type PettyCashHandler struct {
	svc    PettyCashService
	logger *zap.Logger
}

func NewPettyCashHandler(svc PettyCashService, logger *zap.Logger) *PettyCashHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PettyCashHandler{svc: svc, logger: logger}
}

type entryRequest struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Type        string `json:"type" binding:"required"`
	Description string `json:"description"`
}

func (r entryRequest) parse() (ledger.AddRequest, error) {
	amount, err := parsePositive("amount", r.Amount)
	if err != nil {
		return ledger.AddRequest{}, err
	}
	entryType, err := models.ParseEntryType(r.Type)
	if err != nil {
		return ledger.AddRequest{}, err
	}
	date, err := parseDate("date", r.Date)
	if err != nil {
		return ledger.AddRequest{}, err
	}
	return ledger.AddRequest{Date: date, Amount: amount, Type: entryType, Description: r.Description}, nil
}

// List returns the ledger with balances, oldest id first.
func (h *PettyCashHandler) List(c *gin.Context) {
	entries, err := h.svc.List(c.Request.Context(), models.PettyCash)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *PettyCashHandler) Create(c *gin.Context) {
	var body entryRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	req, err := body.parse()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.svc.Add(c.Request.Context(), models.PettyCash, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Update rewrites amount, type and description. The date is not editable.
func (h *PettyCashHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var body entryRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	req, err := body.parse()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.svc.Update(c.Request.Context(), models.PettyCash, id, ledger.UpdateRequest{
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PettyCashHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.svc.Delete(c.Request.Context(), models.PettyCash, id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Verify reports rows whose stored balance disagrees with the chain.
func (h *PettyCashHandler) Verify(c *gin.Context) {
	mismatches, err := h.svc.Verify(c.Request.Context(), models.PettyCash)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if mismatches == nil {
		mismatches = []models.BalanceMismatch{}
	}
	c.JSON(http.StatusOK, gin.H{"ok": len(mismatches) == 0, "mismatches": mismatches})
}
