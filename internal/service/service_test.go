package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/receipt-processor/internal/model"
	"github.com/mmeshcher/receipt-processor/internal/points"
	"github.com/mmeshcher/receipt-processor/internal/repository"
)

type stubRepo struct {
	saved   []model.ScoredReceipt
	saveErr error

	getResp model.ScoredReceipt
	getErr  error

	count    int
	countErr error
}

func (s *stubRepo) Save(ctx context.Context, receipt model.ScoredReceipt) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, receipt)
	return nil
}

func (s *stubRepo) Get(ctx context.Context, id string) (model.ScoredReceipt, error) {
	return s.getResp, s.getErr
}

func (s *stubRepo) Count(ctx context.Context) (int, error) {
	return s.count, s.countErr
}

type fixedPoints int64

func (p fixedPoints) Points(model.Receipt) int64 { return int64(p) }

func TestProcessReceipt_StoresScoredReceipt(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo, fixedPoints(42))

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	receipt := model.Receipt{Retailer: "Target"}
	id, err := svc.ProcessReceipt(context.Background(), receipt)
	if err != nil {
		t.Fatalf("ProcessReceipt error: %v", err)
	}

	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d receipts, want 1", len(repo.saved))
	}

	got := repo.saved[0]
	if got.ID != id || got.Points != 42 || got.Receipt.Retailer != "Target" || !got.ProcessedAt.Equal(fixed) {
		t.Fatalf("unexpected saved receipt: %+v", got)
	}
}

func TestProcessReceipt_UniqueIDs(t *testing.T) {
	svc := NewService(&stubRepo{}, fixedPoints(0))

	a, err := svc.ProcessReceipt(context.Background(), model.Receipt{})
	if err != nil {
		t.Fatalf("ProcessReceipt error: %v", err)
	}
	b, err := svc.ProcessReceipt(context.Background(), model.Receipt{})
	if err != nil {
		t.Fatalf("ProcessReceipt error: %v", err)
	}
	if a == b {
		t.Fatalf("ids must differ, got %q twice", a)
	}
}

func TestProcessReceipt_PropagatesSaveError(t *testing.T) {
	repo := &stubRepo{saveErr: repository.ErrReceiptExists}
	svc := NewService(repo, fixedPoints(1))

	_, err := svc.ProcessReceipt(context.Background(), model.Receipt{})
	if !errors.Is(err, repository.ErrReceiptExists) {
		t.Fatalf("expected ErrReceiptExists, got %v", err)
	}
}

func TestGetPoints_NotFound(t *testing.T) {
	repo := &stubRepo{getErr: repository.ErrReceiptNotFound}
	svc := NewService(repo, fixedPoints(1))

	_, err := svc.GetPoints(context.Background(), "missing")
	if !errors.Is(err, repository.ErrReceiptNotFound) {
		t.Fatalf("expected ErrReceiptNotFound, got %v", err)
	}
}

func TestProcessAndGet_EndToEnd(t *testing.T) {
	svc := NewService(repository.NewMemoryRepository(), points.NewCache(points.DefaultCacheSize, nil))
	ctx := context.Background()

	receipt := model.Receipt{
		Retailer:     "M&M Corner Market",
		PurchaseDate: "2022-03-20",
		PurchaseTime: "14:33",
		Items: []model.Item{
			{ShortDescription: "Gatorade", Price: 2.25},
			{ShortDescription: "Gatorade", Price: 2.25},
			{ShortDescription: "Gatorade", Price: 2.25},
			{ShortDescription: "Gatorade", Price: 2.25},
		},
		Total: 9.00,
	}

	id, err := svc.ProcessReceipt(ctx, receipt)
	if err != nil {
		t.Fatalf("ProcessReceipt error: %v", err)
	}

	got, err := svc.GetPoints(ctx, id)
	if err != nil {
		t.Fatalf("GetPoints error: %v", err)
	}
	if got != 109 {
		t.Fatalf("points = %d, want 109", got)
	}

	n, err := svc.CountReceipts(ctx)
	if err != nil {
		t.Fatalf("CountReceipts error: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}
