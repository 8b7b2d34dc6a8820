package operations

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

const periodLayout = "2006-01"

// EmployeeInput describes a new hire.
type EmployeeInput struct {
	Name          string
	Role          string
	MonthlySalary decimal.Decimal
}

func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (models.Employee, error) {
	if err := requireText("name", in.Name); err != nil {
		return models.Employee{}, err
	}
	if err := requireNonNegative("monthly_salary", in.MonthlySalary); err != nil {
		return models.Employee{}, err
	}

	e, err := s.store.CreateEmployee(ctx, models.Employee{Name: in.Name, Role: in.Role, MonthlySalary: in.MonthlySalary})
	if err != nil {
		return models.Employee{}, fmt.Errorf("create employee: %w", models.WrapStorage("create employee", err))
	}

	s.record(ctx, "employee", e.ID, models.ActionCreate, e.Name)
	return e, nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	out, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", models.WrapStorage("list employees", err))
	}
	return out, nil
}

// SalaryInput describes a payout. A zero Amount pays the monthly salary.
type SalaryInput struct {
	Period string
	Amount decimal.Decimal
	PaidAt time.Time
}

// PaySalary records a payout for an existing employee.
func (s *Service) PaySalary(ctx context.Context, employeeID int64, in SalaryInput) (models.SalaryPayment, error) {
	if _, err := time.Parse(periodLayout, in.Period); err != nil {
		return models.SalaryPayment{}, models.ValidationError{Field: "period", Message: "must be formatted YYYY-MM"}
	}
	if err := requireNonNegative("amount", in.Amount); err != nil {
		return models.SalaryPayment{}, err
	}

	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return models.SalaryPayment{}, fmt.Errorf("pay employee %d: %w", employeeID, models.WrapStorage("get employee", err))
	}

	amount := in.Amount
	if amount.IsZero() {
		amount = employee.MonthlySalary
	}

	p, err := s.store.CreateSalaryPayment(ctx, models.SalaryPayment{
		EmployeeID: employeeID,
		Period:     in.Period,
		Amount:     amount,
		PaidAt:     s.dateOrNow(in.PaidAt),
	})
	if err != nil {
		return models.SalaryPayment{}, fmt.Errorf("pay employee %d: %w", employeeID, models.WrapStorage("create salary payment", err))
	}

	s.logger.Info("salary paid", zap.Int64("employee_id", employeeID), zap.String("period", p.Period), zap.String("amount", p.Amount.String()))
	s.record(ctx, "salary_payment", p.ID, models.ActionCreate, fmt.Sprintf("%s %s %s", employee.Name, p.Period, p.Amount))
	return p, nil
}

func (s *Service) ListSalaryPayments(ctx context.Context, w repository.Window) ([]models.SalaryPayment, error) {
	out, err := s.store.ListSalaryPayments(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("list salary payments: %w", models.WrapStorage("list salary payments", err))
	}
	return out, nil
}
