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

const (
	entityPurchaseOrder = "purchase_order"
	entityDelivery      = "delivery"
)

// PurchaseOrderInput describes a new customer order.
type PurchaseOrderInput struct {
	Customer     string
	Date         time.Time
	Kilos        decimal.Decimal
	PricePerKilo decimal.Decimal
}

// CreatePurchaseOrder opens an order with its full kilos remaining.
func (s *Service) CreatePurchaseOrder(ctx context.Context, in PurchaseOrderInput) (models.PurchaseOrder, error) {
	if err := requireText("customer", in.Customer); err != nil {
		return models.PurchaseOrder{}, err
	}
	if err := requirePositive("kilos", in.Kilos); err != nil {
		return models.PurchaseOrder{}, err
	}
	if err := requireNonNegative("price_per_kilo", in.PricePerKilo); err != nil {
		return models.PurchaseOrder{}, err
	}

	po, err := s.store.CreatePurchaseOrder(ctx, models.PurchaseOrder{
		Customer:       in.Customer,
		Date:           s.dateOrNow(in.Date),
		Kilos:          in.Kilos,
		RemainingKilos: in.Kilos,
		PricePerKilo:   in.PricePerKilo,
	})
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("create purchase order: %w", models.WrapStorage("create purchase order", err))
	}

	s.record(ctx, entityPurchaseOrder, po.ID, models.ActionCreate, fmt.Sprintf("%s %s kg", po.Customer, po.Kilos))
	return po, nil
}

// GetPurchaseOrder returns one order.
func (s *Service) GetPurchaseOrder(ctx context.Context, id int64) (models.PurchaseOrder, error) {
	po, err := s.store.GetPurchaseOrder(ctx, id)
	if err != nil {
		return models.PurchaseOrder{}, fmt.Errorf("get purchase order %d: %w", id, models.WrapStorage("get purchase order", err))
	}
	return po, nil
}

// ListPurchaseOrders returns every order by id.
func (s *Service) ListPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	out, err := s.store.ListPurchaseOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", models.WrapStorage("list purchase orders", err))
	}
	return out, nil
}

// DeliveryInput describes a shipment. A zero Amount is priced from the order.
type DeliveryInput struct {
	PurchaseOrderID int64
	Date            time.Time
	Kilos           decimal.Decimal
	Amount          decimal.Decimal
}

// CreateDelivery records a Pending delivery and consumes the order's
// remaining kilos.
func (s *Service) CreateDelivery(ctx context.Context, in DeliveryInput) (models.Delivery, error) {
	if err := requirePositive("kilos", in.Kilos); err != nil {
		return models.Delivery{}, err
	}
	if err := requireNonNegative("amount", in.Amount); err != nil {
		return models.Delivery{}, err
	}

	amount := in.Amount
	if amount.IsZero() {
		po, err := s.store.GetPurchaseOrder(ctx, in.PurchaseOrderID)
		if err != nil {
			return models.Delivery{}, fmt.Errorf("create delivery for order %d: %w", in.PurchaseOrderID, models.WrapStorage("get purchase order", err))
		}
		amount = in.Kilos.Mul(po.PricePerKilo)
	}

	d, err := s.store.CreateDelivery(ctx, models.Delivery{
		PurchaseOrderID: in.PurchaseOrderID,
		Date:            s.dateOrNow(in.Date),
		Kilos:           in.Kilos,
		Amount:          amount,
		PaymentStatus:   models.StatusPending,
	})
	if err != nil {
		return models.Delivery{}, fmt.Errorf("create delivery for order %d: %w", in.PurchaseOrderID, models.WrapStorage("create delivery", err))
	}

	s.logger.Info("delivery recorded",
		zap.Int64("id", d.ID),
		zap.Int64("purchase_order_id", d.PurchaseOrderID),
		zap.String("kilos", d.Kilos.String()))
	s.record(ctx, entityDelivery, d.ID, models.ActionCreate, fmt.Sprintf("order %d %s kg", d.PurchaseOrderID, d.Kilos))
	return d, nil
}

// TransitionDelivery moves a delivery to next if the guard allows it.
func (s *Service) TransitionDelivery(ctx context.Context, id int64, next models.PaymentStatus) (models.Delivery, error) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()

	d, err := s.store.GetDelivery(ctx, id)
	if err != nil {
		return models.Delivery{}, fmt.Errorf("transition delivery %d: %w", id, models.WrapStorage("get delivery", err))
	}

	current := d.PaymentStatus
	if err := models.CheckTransition(current, next); err != nil {
		return models.Delivery{}, fmt.Errorf("transition delivery %d: %w", id, err)
	}

	if d, err = s.store.SetDeliveryStatus(ctx, id, next); err != nil {
		return models.Delivery{}, fmt.Errorf("transition delivery %d: %w", id, models.WrapStorage("set delivery status", err))
	}

	s.logger.Info("delivery status changed", zap.Int64("id", id), zap.String("from", string(current)), zap.String("to", string(next)))
	s.record(ctx, entityDelivery, id, models.ActionTransition, fmt.Sprintf("%s -> %s", current, next))
	return d, nil
}

// DeleteDelivery removes a delivery and gives its kilos back to the order.
func (s *Service) DeleteDelivery(ctx context.Context, id int64) (models.Delivery, error) {
	d, err := s.store.DeleteDelivery(ctx, id)
	if err != nil {
		return models.Delivery{}, fmt.Errorf("delete delivery %d: %w", id, models.WrapStorage("delete delivery", err))
	}
	s.record(ctx, entityDelivery, id, models.ActionDelete, fmt.Sprintf("order %d %s kg", d.PurchaseOrderID, d.Kilos))
	return d, nil
}

// ListDeliveries returns deliveries dated inside w.
func (s *Service) ListDeliveries(ctx context.Context, w repository.Window) ([]models.Delivery, error) {
	out, err := s.store.ListDeliveries(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", models.WrapStorage("list deliveries", err))
	}
	return out, nil
}
