package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mamadbah2/foodops/internal/domain/models"
	"github.com/mamadbah2/foodops/internal/repository"
)

func (s *Store) CreateProduction(_ context.Context, p models.Production) (models.Production, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	s.production[p.ID] = p
	return p, nil
}

func (s *Store) GetProduction(_ context.Context, id int64) (models.Production, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.production[id]
	if !ok {
		return models.Production{}, models.ErrNotFound
	}
	return p, nil
}

func (s *Store) UpdateProduction(_ context.Context, p models.Production) (models.Production, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.production[p.ID]; !ok {
		return models.Production{}, models.ErrNotFound
	}
	s.production[p.ID] = p
	return p, nil
}

func (s *Store) DeleteProduction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.production[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.production, id)
	return nil
}

func (s *Store) ListProduction(_ context.Context, w repository.Window) ([]models.Production, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Production, 0, len(s.production))
	for _, p := range s.production {
		if w.Contains(p.Date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreatePurchaseOrder(_ context.Context, po models.PurchaseOrder) (models.PurchaseOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	po.ID = s.allocID()
	s.purchaseOrders[po.ID] = po
	return po, nil
}

func (s *Store) GetPurchaseOrder(_ context.Context, id int64) (models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	po, ok := s.purchaseOrders[id]
	if !ok {
		return models.PurchaseOrder{}, models.ErrNotFound
	}
	return po, nil
}

func (s *Store) ListPurchaseOrders(context.Context) ([]models.PurchaseOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PurchaseOrder, 0, len(s.purchaseOrders))
	for _, po := range s.purchaseOrders {
		out = append(out, po)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateDelivery(_ context.Context, d models.Delivery) (models.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	po, ok := s.purchaseOrders[d.PurchaseOrderID]
	if !ok {
		return models.Delivery{}, fmt.Errorf("purchase order %d: %w", d.PurchaseOrderID, models.ErrNotFound)
	}
	if d.Kilos.GreaterThan(po.RemainingKilos) {
		return models.Delivery{}, models.ValidationError{
			Field:   "kilos",
			Message: fmt.Sprintf("delivery of %s exceeds remaining %s", d.Kilos, po.RemainingKilos),
		}
	}

	po.RemainingKilos = po.RemainingKilos.Sub(d.Kilos)
	s.purchaseOrders[po.ID] = po

	d.ID = s.allocID()
	s.deliveries[d.ID] = d
	return d, nil
}

func (s *Store) GetDelivery(_ context.Context, id int64) (models.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deliveries[id]
	if !ok {
		return models.Delivery{}, models.ErrNotFound
	}
	return d, nil
}

func (s *Store) SetDeliveryStatus(_ context.Context, id int64, status models.PaymentStatus) (models.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return models.Delivery{}, models.ErrNotFound
	}
	d.PaymentStatus = status
	s.deliveries[id] = d
	return d, nil
}

func (s *Store) DeleteDelivery(_ context.Context, id int64) (models.Delivery, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deliveries[id]
	if !ok {
		return models.Delivery{}, models.ErrNotFound
	}
	if po, ok := s.purchaseOrders[d.PurchaseOrderID]; ok {
		po.RemainingKilos = po.RemainingKilos.Add(d.Kilos)
		s.purchaseOrders[po.ID] = po
	}
	delete(s.deliveries, id)
	return d, nil
}

func (s *Store) ListDeliveries(_ context.Context, w repository.Window) ([]models.Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Delivery, 0, len(s.deliveries))
	for _, d := range s.deliveries {
		if w.Contains(d.Date) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreatePurchase(_ context.Context, p models.Purchase) (models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	s.purchases[p.ID] = p
	return p, nil
}

func (s *Store) ListPurchases(_ context.Context, w repository.Window) ([]models.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Purchase, 0, len(s.purchases))
	for _, p := range s.purchases {
		if w.Contains(p.Date) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e models.Expense) (models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, w repository.Window) ([]models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateEmployee(_ context.Context, e models.Employee) (models.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	s.employees[e.ID] = e
	return e, nil
}

func (s *Store) GetEmployee(_ context.Context, id int64) (models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return models.Employee{}, models.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEmployees(context.Context) ([]models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateSalaryPayment(_ context.Context, p models.SalaryPayment) (models.SalaryPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[p.EmployeeID]; !ok {
		return models.SalaryPayment{}, fmt.Errorf("employee %d: %w", p.EmployeeID, models.ErrNotFound)
	}
	p.ID = s.allocID()
	s.salaries[p.ID] = p
	return p, nil
}

func (s *Store) ListSalaryPayments(_ context.Context, w repository.Window) ([]models.SalaryPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SalaryPayment, 0, len(s.salaries))
	for _, p := range s.salaries {
		if w.Contains(p.PaidAt) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) AppendAudit(_ context.Context, event models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, event)
	return nil
}

func (s *Store) ListAudit(_ context.Context, limit int) ([]models.AuditEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEvent, 0, len(s.audit))
	for i := len(s.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.audit[i])
	}
	return out, nil
}
