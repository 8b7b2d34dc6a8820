package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/service/operations"
)

// OperationsService is the operations surface exposed over HTTP.
type OperationsService interface {
	CreateProduction(ctx context.Context, in operations.ProductionInput) (models.Production, error)
	UpdateProduction(ctx context.Context, id int64, in operations.ProductionInput) (models.Production, error)
	DeleteProduction(ctx context.Context, id int64) error
	ListProduction(ctx context.Context, w repository.Window) ([]models.Production, error)

	CreatePurchaseOrder(ctx context.Context, in operations.PurchaseOrderInput) (models.PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, id int64) (models.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error)

	CreateDelivery(ctx context.Context, in operations.DeliveryInput) (models.Delivery, error)
	TransitionDelivery(ctx context.Context, id int64, next models.PaymentStatus) (models.Delivery, error)
	DeleteDelivery(ctx context.Context, id int64) (models.Delivery, error)
	ListDeliveries(ctx context.Context, w repository.Window) ([]models.Delivery, error)

	CreatePurchase(ctx context.Context, in operations.PurchaseInput) (models.Purchase, error)
	ListPurchases(ctx context.Context, w repository.Window) ([]models.Purchase, error)
	CreateExpense(ctx context.Context, in operations.ExpenseInput) (models.Expense, error)
	ListExpenses(ctx context.Context, w repository.Window) ([]models.Expense, error)

	CreateEmployee(ctx context.Context, in operations.EmployeeInput) (models.Employee, error)
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	PaySalary(ctx context.Context, employeeID int64, in operations.SalaryInput) (models.SalaryPayment, error)
}

// OperationsHandler serves production, orders, deliveries, purchases,
// expenses and employees.
type OperationsHandler struct {
	svc    OperationsService
	logger *zap.Logger
}

func NewOperationsHandler(svc OperationsService, logger *zap.Logger) *OperationsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OperationsHandler{svc: svc, logger: logger}
}

// listInWindow answers a GET with the window taken from the query string.
func listInWindow[T any](h *OperationsHandler, c *gin.Context, key string, list func(context.Context, repository.Window) ([]T, error)) {
	w, err := parseWindow(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out, err := list(c.Request.Context(), w)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if out == nil {
		out = []T{}
	}
	c.JSON(http.StatusOK, gin.H{key: out})
}

type productionRequest struct {
	Date     string `json:"date"`
	KilosIn  string `json:"kilos_in"`
	KilosOut string `json:"kilos_out"`
}

func (r productionRequest) parse() (operations.ProductionInput, error) {
	date, err := parseDate("date", r.Date)
	if err != nil {
		return operations.ProductionInput{}, err
	}
	kilosIn, err := parsePositive("kilos_in", r.KilosIn)
	if err != nil {
		return operations.ProductionInput{}, err
	}
	kilosOut, err := parseDecimal("kilos_out", r.KilosOut)
	if err != nil {
		return operations.ProductionInput{}, err
	}
	return operations.ProductionInput{Date: date, KilosIn: kilosIn, KilosOut: kilosOut}, nil
}

func (h *OperationsHandler) ListProduction(c *gin.Context) {
	listInWindow(h, c, "production", h.svc.ListProduction)
}

func (h *OperationsHandler) CreateProduction(c *gin.Context) {
	var body productionRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := body.parse()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	p, err := h.svc.CreateProduction(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *OperationsHandler) UpdateProduction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var body productionRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	in, err := body.parse()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	p, err := h.svc.UpdateProduction(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *OperationsHandler) DeleteProduction(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.svc.DeleteProduction(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteResult{ID: id, Deleted: true})
}

type purchaseOrderRequest struct {
	Customer     string `json:"customer" binding:"required"`
	Date         string `json:"date"`
	Kilos        string `json:"kilos"`
	PricePerKilo string `json:"price_per_kilo"`
}

func (h *OperationsHandler) ListPurchaseOrders(c *gin.Context) {
	out, err := h.svc.ListPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase_orders": out})
}

func (h *OperationsHandler) GetPurchaseOrder(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	po, err := h.svc.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *OperationsHandler) CreatePurchaseOrder(c *gin.Context) {
	var body purchaseOrderRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	kilos, err := parsePositive("kilos", body.Kilos)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	price, err := parseDecimal("price_per_kilo", body.PricePerKilo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	po, err := h.svc.CreatePurchaseOrder(c.Request.Context(), operations.PurchaseOrderInput{
		Customer:     body.Customer,
		Date:         date,
		Kilos:        kilos,
		PricePerKilo: price,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

type deliveryRequest struct {
	PurchaseOrderID int64  `json:"purchase_order_id" binding:"required"`
	Date            string `json:"date"`
	Kilos           string `json:"kilos"`
	Amount          string `json:"amount"`
}

type statusRequest struct {
	Status models.PaymentStatus `json:"status" binding:"required"`
}

func (h *OperationsHandler) ListDeliveries(c *gin.Context) {
	listInWindow(h, c, "deliveries", h.svc.ListDeliveries)
}

func (h *OperationsHandler) CreateDelivery(c *gin.Context) {
	var body deliveryRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	kilos, err := parsePositive("kilos", body.Kilos)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := parseOptionalDecimal("amount", body.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	d, err := h.svc.CreateDelivery(c.Request.Context(), operations.DeliveryInput{
		PurchaseOrderID: body.PurchaseOrderID,
		Date:            date,
		Kilos:           kilos,
		Amount:          amount,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// TransitionDelivery applies PATCH /api/deliveries/:id/status.
func (h *OperationsHandler) TransitionDelivery(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var body statusRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}

	d, err := h.svc.TransitionDelivery(c.Request.Context(), id, body.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *OperationsHandler) DeleteDelivery(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if _, err := h.svc.DeleteDelivery(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, models.DeleteResult{ID: id, Deleted: true})
}

type purchaseRequest struct {
	Date         string `json:"date"`
	Supplier     string `json:"supplier" binding:"required"`
	Kilos        string `json:"kilos"`
	PricePerKilo string `json:"price_per_kilo"`
}

func (h *OperationsHandler) ListPurchases(c *gin.Context) {
	listInWindow(h, c, "purchases", h.svc.ListPurchases)
}

func (h *OperationsHandler) CreatePurchase(c *gin.Context) {
	var body purchaseRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	kilos, err := parsePositive("kilos", body.Kilos)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	price, err := parseDecimal("price_per_kilo", body.PricePerKilo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p, err := h.svc.CreatePurchase(c.Request.Context(), operations.PurchaseInput{
		Date:         date,
		Supplier:     body.Supplier,
		Kilos:        kilos,
		PricePerKilo: price,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type expenseRequest struct {
	Date        string `json:"date"`
	Category    string `json:"category" binding:"required"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (h *OperationsHandler) ListExpenses(c *gin.Context) {
	listInWindow(h, c, "expenses", h.svc.ListExpenses)
}

func (h *OperationsHandler) CreateExpense(c *gin.Context) {
	var body expenseRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	date, err := parseDate("date", body.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := parsePositive("amount", body.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	e, err := h.svc.CreateExpense(c.Request.Context(), operations.ExpenseInput{
		Date:        date,
		Category:    body.Category,
		Amount:      amount,
		Description: body.Description,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

type employeeRequest struct {
	Name          string `json:"name" binding:"required"`
	Role          string `json:"role"`
	MonthlySalary string `json:"monthly_salary"`
}

type salaryRequest struct {
	Period string `json:"period" binding:"required"`
	Amount string `json:"amount"`
	PaidAt string `json:"paid_at"`
}

func (h *OperationsHandler) ListEmployees(c *gin.Context) {
	out, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": out})
}

func (h *OperationsHandler) CreateEmployee(c *gin.Context) {
	var body employeeRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	salary, err := parseOptionalDecimal("monthly_salary", body.MonthlySalary)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	e, err := h.svc.CreateEmployee(c.Request.Context(), operations.EmployeeInput{
		Name:          body.Name,
		Role:          body.Role,
		MonthlySalary: salary,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *OperationsHandler) PaySalary(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var body salaryRequest
	if err := bindJSON(c, &body); err != nil {
		respondError(c, h.logger, err)
		return
	}
	amount, err := parseOptionalDecimal("amount", body.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	paidAt, err := parseDate("paid_at", body.PaidAt)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p, err := h.svc.PaySalary(c.Request.Context(), id, operations.SalaryInput{Period: body.Period, Amount: amount, PaidAt: paidAt})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
