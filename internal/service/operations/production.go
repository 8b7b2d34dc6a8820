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

const entityProduction = "production"

// ProductionInput is the caller-supplied part of a batch.
type ProductionInput struct {
	Date     time.Time
	KilosIn  decimal.Decimal
	KilosOut decimal.Decimal
}

func (in ProductionInput) validate() error {
	if err := requirePositive("kilos_in", in.KilosIn); err != nil {
		return err
	}
	return requireNonNegative("kilos_out", in.KilosOut)
}

// CreateProduction stores a batch with its surplus.
func (s *Service) CreateProduction(ctx context.Context, in ProductionInput) (models.Production, error) {
	if err := in.validate(); err != nil {
		return models.Production{}, err
	}

	p, err := s.store.CreateProduction(ctx, models.Production{
		Date:     s.dateOrNow(in.Date),
		KilosIn:  in.KilosIn,
		KilosOut: in.KilosOut,
		Surplus:  models.ComputeSurplus(in.KilosIn, in.KilosOut),
	})
	if err != nil {
		return models.Production{}, fmt.Errorf("create production: %w", models.WrapStorage("create production", err))
	}

	s.logger.Info("production recorded", zap.Int64("id", p.ID), zap.String("surplus", p.Surplus.String()))
	s.record(ctx, entityProduction, p.ID, models.ActionCreate, fmt.Sprintf("in %s out %s", p.KilosIn, p.KilosOut))
	return p, nil
}

// UpdateProduction rewrites the kilos of a batch and recomputes its surplus.
// A zero date keeps the stored one.
func (s *Service) UpdateProduction(ctx context.Context, id int64, in ProductionInput) (models.Production, error) {
	if err := in.validate(); err != nil {
		return models.Production{}, err
	}

	p, err := s.store.GetProduction(ctx, id)
	if err != nil {
		return models.Production{}, fmt.Errorf("update production %d: %w", id, models.WrapStorage("get production", err))
	}
	if !in.Date.IsZero() {
		p.Date = in.Date
	}
	p.KilosIn = in.KilosIn
	p.KilosOut = in.KilosOut
	p.Surplus = models.ComputeSurplus(in.KilosIn, in.KilosOut)

	if p, err = s.store.UpdateProduction(ctx, p); err != nil {
		return models.Production{}, fmt.Errorf("update production %d: %w", id, models.WrapStorage("update production", err))
	}

	s.record(ctx, entityProduction, id, models.ActionUpdate, fmt.Sprintf("in %s out %s", p.KilosIn, p.KilosOut))
	return p, nil
}

// DeleteProduction removes a batch.
func (s *Service) DeleteProduction(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduction(ctx, id); err != nil {
		return fmt.Errorf("delete production %d: %w", id, models.WrapStorage("delete production", err))
	}
	s.record(ctx, entityProduction, id, models.ActionDelete, "")
	return nil
}

// ListProduction returns batches dated inside w.
func (s *Service) ListProduction(ctx context.Context, w repository.Window) ([]models.Production, error) {
	out, err := s.store.ListProduction(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("list production: %w", models.WrapStorage("list production", err))
	}
	return out, nil
}
