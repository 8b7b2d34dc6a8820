package operations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
	"github.com/mamadbah2/foodops/internal/repository/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestService() *Service {
	return NewService(memory.New(), nil, nil)
}

func TestProductionSurplus(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.CreateProduction(ctx, ProductionInput{KilosIn: dec("1000"), KilosOut: dec("120")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Surplus.String() != "20" {
		t.Fatalf("surplus = %s, want 20", p.Surplus)
	}

	updated, err := svc.UpdateProduction(ctx, p.ID, ProductionInput{KilosIn: dec("1000"), KilosOut: dec("90")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Surplus.String() != "-10" {
		t.Fatalf("surplus after update = %s, want -10", updated.Surplus)
	}
	if !updated.Date.Equal(p.Date) {
		t.Fatalf("date changed: %v -> %v", p.Date, updated.Date)
	}

	if err := svc.DeleteProduction(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteProduction(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestProductionValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    ProductionInput
		field string
	}{
		{name: "zero input", in: ProductionInput{KilosIn: dec("0"), KilosOut: dec("1")}, field: "kilos_in"},
		{name: "negative output", in: ProductionInput{KilosIn: dec("10"), KilosOut: dec("-1")}, field: "kilos_out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().CreateProduction(context.Background(), tt.in)
			var ve models.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err = %v, want validation on %s", err, tt.field)
			}
		})
	}
}

func TestDeliveryLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	po, err := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{Customer: "Hotel Kaloum", Kilos: dec("100"), PricePerKilo: dec("2.5")})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if !po.RemainingKilos.Equal(po.Kilos) {
		t.Fatalf("remaining = %s, want %s", po.RemainingKilos, po.Kilos)
	}

	d, err := svc.CreateDelivery(ctx, DeliveryInput{PurchaseOrderID: po.ID, Kilos: dec("40")})
	if err != nil {
		t.Fatalf("create delivery: %v", err)
	}
	if d.PaymentStatus != models.StatusPending {
		t.Fatalf("status = %s, want Pending", d.PaymentStatus)
	}
	if d.Amount.String() != "100" {
		t.Fatalf("amount = %s, want 100", d.Amount)
	}

	po, _ = svc.GetPurchaseOrder(ctx, po.ID)
	if po.RemainingKilos.String() != "60" {
		t.Fatalf("remaining = %s, want 60", po.RemainingKilos)
	}

	_, err = svc.CreateDelivery(ctx, DeliveryInput{PurchaseOrderID: po.ID, Kilos: dec("61")})
	if !models.IsValidation(err) {
		t.Fatalf("over-delivery err = %v, want ValidationError", err)
	}

	if _, err := svc.DeleteDelivery(ctx, d.ID); err != nil {
		t.Fatalf("delete delivery: %v", err)
	}
	po, _ = svc.GetPurchaseOrder(ctx, po.ID)
	if po.RemainingKilos.String() != "100" {
		t.Fatalf("remaining after delete = %s, want 100", po.RemainingKilos)
	}
}

func TestDeliveryUnknownOrder(t *testing.T) {
	_, err := newTestService().CreateDelivery(context.Background(), DeliveryInput{PurchaseOrderID: 42, Kilos: dec("1")})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestTransitionDelivery(t *testing.T) {
	tests := []struct {
		name    string
		path    []models.PaymentStatus
		wantErr bool
	}{
		{name: "approve then pay", path: []models.PaymentStatus{models.StatusApproved, models.StatusPaid}},
		{name: "reject", path: []models.PaymentStatus{models.StatusRejected}},
		{name: "pay while pending", path: []models.PaymentStatus{models.StatusPaid}, wantErr: true},
		{name: "paid is terminal", path: []models.PaymentStatus{models.StatusApproved, models.StatusPaid, models.StatusPending}, wantErr: true},
		{name: "rejected is terminal", path: []models.PaymentStatus{models.StatusRejected, models.StatusApproved}, wantErr: true},
		{name: "self loop", path: []models.PaymentStatus{models.StatusPending}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			ctx := context.Background()
			po, _ := svc.CreatePurchaseOrder(ctx, PurchaseOrderInput{Customer: "c", Kilos: dec("10"), PricePerKilo: dec("1")})
			d, err := svc.CreateDelivery(ctx, DeliveryInput{PurchaseOrderID: po.ID, Kilos: dec("5")})
			if err != nil {
				t.Fatalf("create delivery: %v", err)
			}

			var lastErr error
			for i, next := range tt.path {
				before, _ := svc.store.GetDelivery(ctx, d.ID)
				_, lastErr = svc.TransitionDelivery(ctx, d.ID, next)
				if lastErr != nil {
					if i != len(tt.path)-1 {
						t.Fatalf("step %d failed early: %v", i, lastErr)
					}
					after, _ := svc.store.GetDelivery(ctx, d.ID)
					if after.PaymentStatus != before.PaymentStatus {
						t.Fatalf("status changed on rejected transition: %s -> %s", before.PaymentStatus, after.PaymentStatus)
					}
					var ite models.InvalidTransitionError
					if !errors.As(lastErr, &ite) || ite.From != before.PaymentStatus || ite.To != next {
						t.Fatalf("err = %v, want InvalidTransition %s -> %s", lastErr, before.PaymentStatus, next)
					}
				}
			}
			if (lastErr != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", lastErr, tt.wantErr)
			}
		})
	}
}

func TestPurchaseTotal(t *testing.T) {
	p, err := newTestService().CreatePurchase(context.Background(), PurchaseInput{Supplier: "Coop", Kilos: dec("250"), PricePerKilo: dec("1.2")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Total.String() != "300" {
		t.Fatalf("total = %s, want 300", p.Total)
	}
}

func TestExpenseListWindow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	jan := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{jan, feb} {
		if _, err := svc.CreateExpense(ctx, ExpenseInput{Date: d, Category: "fuel", Amount: dec("10")}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	out, err := svc.ListExpenses(ctx, repository.Window{From: feb.AddDate(0, 0, -1)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 || !out[0].Date.Equal(feb) {
		t.Fatalf("expenses = %+v", out)
	}
}

func TestPaySalary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	e, err := svc.CreateEmployee(ctx, EmployeeInput{Name: "Aissatou", Role: "drying", MonthlySalary: dec("1500")})
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}

	tests := []struct {
		name       string
		employeeID int64
		in         SalaryInput
		want       string
		check      func(error) bool
	}{
		{name: "defaults to monthly salary", employeeID: e.ID, in: SalaryInput{Period: "2024-03"}, want: "1500"},
		{name: "explicit amount", employeeID: e.ID, in: SalaryInput{Period: "2024-04", Amount: dec("700")}, want: "700"},
		{name: "bad period", employeeID: e.ID, in: SalaryInput{Period: "March"}, check: models.IsValidation},
		{name: "unknown employee", employeeID: 999, in: SalaryInput{Period: "2024-03"}, check: models.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.PaySalary(ctx, tt.employeeID, tt.in)
			if tt.check != nil {
				if !tt.check(err) {
					t.Fatalf("unexpected err %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pay: %v", err)
			}
			if p.Amount.String() != tt.want {
				t.Fatalf("amount = %s, want %s", p.Amount, tt.want)
			}
		})
	}
}
