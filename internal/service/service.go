// Package service реализует бизнес-логику сервиса обработки чеков.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/receipt-processor/internal/model"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Save(ctx context.Context, receipt model.ScoredReceipt) error
	Get(ctx context.Context, id string) (model.ScoredReceipt, error)
	Count(ctx context.Context) (int, error)
}

// PointsCalculator рассчитывает баллы за чек.
type PointsCalculator interface {
	Points(r model.Receipt) int64
}

// Service содержит бизнес-логику сервиса обработки чеков.
type Service struct {
	repo   Repository
	points PointsCalculator
	now    func() time.Time
	newID  func() string
}

// NewService создаёт новый сервис с указанным хранилищем и калькулятором баллов.
func NewService(repo Repository, points PointsCalculator) *Service {
	return &Service{
		repo:   repo,
		points: points,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// ProcessReceipt начисляет баллы за проверенный чек, сохраняет результат и возвращает идентификатор чека.
func (s *Service) ProcessReceipt(ctx context.Context, receipt model.Receipt) (string, error) {
	scored := model.ScoredReceipt{
		ID:          s.newID(),
		Receipt:     receipt,
		Points:      s.points.Points(receipt),
		ProcessedAt: s.now().UTC(),
	}

	if err := s.repo.Save(ctx, scored); err != nil {
		return "", fmt.Errorf("save receipt: %w", err)
	}

	return scored.ID, nil
}

// GetPoints возвращает количество баллов, начисленных за чек.
func (s *Service) GetPoints(ctx context.Context, id string) (int64, error) {
	scored, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return scored.Points, nil
}

// CountReceipts возвращает количество обработанных чеков.
func (s *Service) CountReceipts(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
