package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DryRatio converts raw input kilos into expected dry output.
var DryRatio = decimal.RequireFromString("0.1")

// Production is a processing batch.
type Production struct {
	ID       int64           `json:"id"`
	Date     time.Time       `json:"date"`
	KilosIn  decimal.Decimal `json:"kilos_in"`
	KilosOut decimal.Decimal `json:"kilos_out"`
	Surplus  decimal.Decimal `json:"surplus"`
}

// ComputeSurplus returns kilosOut - kilosIn * DryRatio.
func ComputeSurplus(kilosIn, kilosOut decimal.Decimal) decimal.Decimal {
	return kilosOut.Sub(kilosIn.Mul(DryRatio))
}

// Purchase is a raw-material buy.
type Purchase struct {
	ID           int64           `json:"id"`
	Date         time.Time       `json:"date"`
	Supplier     string          `json:"supplier"`
	Kilos        decimal.Decimal `json:"kilos"`
	PricePerKilo decimal.Decimal `json:"price_per_kilo"`
	Total        decimal.Decimal `json:"total"`
}

// Expense is an operating cost outside petty cash.
type Expense struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Employee is a salaried worker.
type Employee struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Role          string          `json:"role"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`
}

// SalaryPayment records one payout for a period formatted YYYY-MM.
type SalaryPayment struct {
	ID         int64           `json:"id"`
	EmployeeID int64           `json:"employee_id"`
	Period     string          `json:"period"`
	Amount     decimal.Decimal `json:"amount"`
	PaidAt     time.Time       `json:"paid_at"`
}
