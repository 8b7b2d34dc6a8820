package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

func (s *Store) insertReturningID(ctx context.Context, q querier, query string, args ...any) (int64, error) {
	var id int64
	if err := q.QueryRowContext(ctx, s.rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

// ==================== Production ====================

func scanProduction(row scanner) (models.Production, error) {
	var p models.Production
	err := row.Scan(&p.ID, &p.Date, &p.KilosIn, &p.KilosOut, &p.Surplus)
	return p, err
}

func (s *Store) CreateProduction(ctx context.Context, p models.Production) (models.Production, error) {
	p.Date = p.Date.UTC()
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO production (date, kilos_in, kilos_out, surplus) VALUES (?, ?, ?, ?)`,
		p.Date, p.KilosIn, p.KilosOut, p.Surplus)
	if err != nil {
		return models.Production{}, fmt.Errorf("failed to insert production: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *Store) GetProduction(ctx context.Context, id int64) (models.Production, error) {
	p, err := scanProduction(s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, date, kilos_in, kilos_out, surplus FROM production WHERE id = ?`), id))
	if err != nil {
		return models.Production{}, notFound(err)
	}
	return p, nil
}

func (s *Store) UpdateProduction(ctx context.Context, p models.Production) (models.Production, error) {
	p.Date = p.Date.UTC()
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE production SET date = ?, kilos_in = ?, kilos_out = ?, surplus = ? WHERE id = ?`),
		p.Date, p.KilosIn, p.KilosOut, p.Surplus, p.ID)
	if err != nil {
		return models.Production{}, fmt.Errorf("failed to update production %d: %w", p.ID, err)
	}
	if err := expectRow(res); err != nil {
		return models.Production{}, err
	}
	return p, nil
}

func (s *Store) DeleteProduction(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM production WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete production %d: %w", id, err)
	}
	return expectRow(res)
}

func (s *Store) ListProduction(ctx context.Context, w repository.Window) ([]models.Production, error) {
	where, args := windowClause(w, "date")
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, date, kilos_in, kilos_out, surplus FROM production`+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list production: %w", err)
	}
	defer rows.Close()

	var out []models.Production
	for rows.Next() {
		p, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan production: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ==================== Purchase orders & deliveries ====================

const purchaseOrderColumns = `id, customer, date, kilos, remaining_kilos, price_per_kilo`

func scanPurchaseOrder(row scanner) (models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := row.Scan(&po.ID, &po.Customer, &po.Date, &po.Kilos, &po.RemainingKilos, &po.PricePerKilo)
	return po, err
}

func (s *Store) CreatePurchaseOrder(ctx context.Context, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	po.Date = po.Date.UTC()
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO purchase_orders (customer, date, kilos, remaining_kilos, price_per_kilo) VALUES (?, ?, ?, ?, ?)`,
		po.Customer, po.Date, po.Kilos, po.RemainingKilos, po.PricePerKilo)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("failed to insert purchase order: %w", err)
	}
	po.ID = id
	return po, nil
}

func (s *Store) getPurchaseOrder(ctx context.Context, q querier, id int64) (models.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(q.QueryRowContext(ctx,
		s.rebind(`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = ?`), id))
	if err != nil {
		return models.PurchaseOrder{}, notFound(err)
	}
	return po, nil
}

// lockPurchaseOrder reads an order inside tx and, on PostgreSQL, holds its
// row until commit so concurrent deliveries see each other's decrement.
func (s *Store) lockPurchaseOrder(ctx context.Context, tx *sql.Tx, id int64) (models.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(tx.QueryRowContext(ctx,
		s.forUpdate(s.rebind(`SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = ?`)), id))
	if err != nil {
		return models.PurchaseOrder{}, notFound(err)
	}
	return po, nil
}

func (s *Store) GetPurchaseOrder(ctx context.Context, id int64) (models.PurchaseOrder, error) {
	return s.getPurchaseOrder(ctx, s.db, id)
}

func (s *Store) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []models.PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		out = append(out, po)
	}
	return out, rows.Err()
}

func (s *Store) setRemainingKilos(ctx context.Context, q querier, id int64, remaining decimal.Decimal) error {
	res, err := q.ExecContext(ctx, s.rebind(`UPDATE purchase_orders SET remaining_kilos = ? WHERE id = ?`), remaining, id)
	if err != nil {
		return fmt.Errorf("failed to update remaining kilos of order %d: %w", id, err)
	}
	return expectRow(res)
}

const deliveryColumns = `id, purchase_order_id, date, kilos, amount, payment_status`

func scanDelivery(row scanner) (models.Delivery, error) {
	var (
		d      models.Delivery
		status string
	)
	if err := row.Scan(&d.ID, &d.PurchaseOrderID, &d.Date, &d.Kilos, &d.Amount, &status); err != nil {
		return models.Delivery{}, err
	}
	d.PaymentStatus = models.PaymentStatus(status)
	return d, nil
}

func (s *Store) CreateDelivery(ctx context.Context, d models.Delivery) (models.Delivery, error) {
	d.Date = d.Date.UTC()
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		po, err := s.lockPurchaseOrder(ctx, tx, d.PurchaseOrderID)
		if err != nil {
			return fmt.Errorf("purchase order %d: %w", d.PurchaseOrderID, err)
		}
		if d.Kilos.GreaterThan(po.RemainingKilos) {
			return models.ValidationError{
				Field:   "kilos",
				Message: fmt.Sprintf("delivery of %s exceeds remaining %s", d.Kilos, po.RemainingKilos),
			}
		}
		if err := s.setRemainingKilos(ctx, tx, po.ID, po.RemainingKilos.Sub(d.Kilos)); err != nil {
			return err
		}

		id, err := s.insertReturningID(ctx, tx,
			`INSERT INTO deliveries (purchase_order_id, date, kilos, amount, payment_status) VALUES (?, ?, ?, ?, ?)`,
			d.PurchaseOrderID, d.Date, d.Kilos, d.Amount, string(d.PaymentStatus))
		if err != nil {
			return fmt.Errorf("failed to insert delivery: %w", err)
		}
		d.ID = id
		return nil
	})
	if err != nil {
		return models.Delivery{}, err
	}
	return d, nil
}

func (s *Store) getDelivery(ctx context.Context, q querier, id int64) (models.Delivery, error) {
	d, err := scanDelivery(q.QueryRowContext(ctx, s.rebind(`SELECT `+deliveryColumns+` FROM deliveries WHERE id = ?`), id))
	if err != nil {
		return models.Delivery{}, notFound(err)
	}
	return d, nil
}

func (s *Store) GetDelivery(ctx context.Context, id int64) (models.Delivery, error) {
	return s.getDelivery(ctx, s.db, id)
}

func (s *Store) SetDeliveryStatus(ctx context.Context, id int64, status models.PaymentStatus) (models.Delivery, error) {
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE deliveries SET payment_status = ? WHERE id = ?`), string(status), id)
	if err != nil {
		return models.Delivery{}, fmt.Errorf("failed to update delivery %d: %w", id, err)
	}
	if err := expectRow(res); err != nil {
		return models.Delivery{}, err
	}
	return s.GetDelivery(ctx, id)
}

func (s *Store) DeleteDelivery(ctx context.Context, id int64) (models.Delivery, error) {
	var removed models.Delivery
	err := s.transaction(ctx, func(tx *sql.Tx) error {
		d, err := s.getDelivery(ctx, tx, id)
		if err != nil {
			return err
		}
		po, err := s.lockPurchaseOrder(ctx, tx, d.PurchaseOrderID)
		if err != nil {
			return fmt.Errorf("purchase order %d: %w", d.PurchaseOrderID, err)
		}
		if err := s.setRemainingKilos(ctx, tx, po.ID, po.RemainingKilos.Add(d.Kilos)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM deliveries WHERE id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete delivery %d: %w", id, err)
		}
		removed = d
		return nil
	})
	return removed, err
}

func (s *Store) ListDeliveries(ctx context.Context, w repository.Window) ([]models.Delivery, error) {
	where, args := windowClause(w, "date")
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT `+deliveryColumns+` FROM deliveries`+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var out []models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ==================== Purchases & expenses ====================

func (s *Store) CreatePurchase(ctx context.Context, p models.Purchase) (models.Purchase, error) {
	p.Date = p.Date.UTC()
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO purchases (date, supplier, kilos, price_per_kilo, total) VALUES (?, ?, ?, ?, ?)`,
		p.Date, p.Supplier, p.Kilos, p.PricePerKilo, p.Total)
	if err != nil {
		return models.Purchase{}, fmt.Errorf("failed to insert purchase: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *Store) ListPurchases(ctx context.Context, w repository.Window) ([]models.Purchase, error) {
	where, args := windowClause(w, "date")
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, date, supplier, kilos, price_per_kilo, total FROM purchases`+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var out []models.Purchase
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(&p.ID, &p.Date, &p.Supplier, &p.Kilos, &p.PricePerKilo, &p.Total); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateExpense(ctx context.Context, e models.Expense) (models.Expense, error) {
	e.Date = e.Date.UTC()
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO expenses (date, category, amount, description) VALUES (?, ?, ?, ?)`,
		e.Date, e.Category, e.Amount, e.Description)
	if err != nil {
		return models.Expense{}, fmt.Errorf("failed to insert expense: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *Store) ListExpenses(ctx context.Context, w repository.Window) ([]models.Expense, error) {
	where, args := windowClause(w, "date")
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, date, category, amount, description FROM expenses`+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var out []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Amount, &e.Description); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ==================== Employees & salaries ====================

func (s *Store) CreateEmployee(ctx context.Context, e models.Employee) (models.Employee, error) {
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO employees (name, role, monthly_salary) VALUES (?, ?, ?)`,
		e.Name, e.Role, e.MonthlySalary)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to insert employee: %w", err)
	}
	e.ID = id
	return e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id int64) (models.Employee, error) {
	var e models.Employee
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT id, name, role, monthly_salary FROM employees WHERE id = ?`), id).
		Scan(&e.ID, &e.Name, &e.Role, &e.MonthlySalary)
	if err != nil {
		return models.Employee{}, notFound(err)
	}
	return e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, role, monthly_salary FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Role, &e.MonthlySalary); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CreateSalaryPayment(ctx context.Context, p models.SalaryPayment) (models.SalaryPayment, error) {
	if _, err := s.GetEmployee(ctx, p.EmployeeID); err != nil {
		return models.SalaryPayment{}, fmt.Errorf("employee %d: %w", p.EmployeeID, err)
	}
	p.PaidAt = p.PaidAt.UTC()
	id, err := s.insertReturningID(ctx, s.db,
		`INSERT INTO salary_payments (employee_id, period, amount, paid_at) VALUES (?, ?, ?, ?)`,
		p.EmployeeID, p.Period, p.Amount, p.PaidAt)
	if err != nil {
		return models.SalaryPayment{}, fmt.Errorf("failed to insert salary payment: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *Store) ListSalaryPayments(ctx context.Context, w repository.Window) ([]models.SalaryPayment, error) {
	where, args := windowClause(w, "paid_at")
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, employee_id, period, amount, paid_at FROM salary_payments`+where+` ORDER BY id`), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary payments: %w", err)
	}
	defer rows.Close()

	var out []models.SalaryPayment
	for rows.Next() {
		var p models.SalaryPayment
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.Period, &p.Amount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan salary payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
