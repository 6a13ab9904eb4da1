// Package repository содержит хранилище обработанных чеков.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mmeshcher/receipt-processor/internal/model"
)

var (
	// ErrReceiptNotFound возвращается, если чек с указанным идентификатором не найден.
	ErrReceiptNotFound = errors.New("receipt not found")
	// ErrReceiptExists возвращается при попытке перезаписать уже сохранённый чек.
	ErrReceiptExists = errors.New("receipt already exists")
)

// MemoryRepository хранит обработанные чеки в памяти процесса.
// Данные теряются при перезапуске.
type MemoryRepository struct {
	mu       sync.RWMutex
	receipts map[string]model.ScoredReceipt
}

// NewMemoryRepository создаёт пустое хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		receipts: make(map[string]model.ScoredReceipt),
	}
}

// Save сохраняет чек. Чек становится доступен для чтения после возврата из метода.
func (r *MemoryRepository) Save(ctx context.Context, receipt model.ScoredReceipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.receipts[receipt.ID]; ok {
		return fmt.Errorf("%w: %s", ErrReceiptExists, receipt.ID)
	}

	receipt.Receipt.Items = append([]model.Item(nil), receipt.Receipt.Items...)
	r.receipts[receipt.ID] = receipt

	return nil
}

// Get возвращает чек по идентификатору.
func (r *MemoryRepository) Get(ctx context.Context, id string) (model.ScoredReceipt, error) {
	if err := ctx.Err(); err != nil {
		return model.ScoredReceipt{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	receipt, ok := r.receipts[id]
	if !ok {
		return model.ScoredReceipt{}, ErrReceiptNotFound
	}

	return receipt, nil
}

// Count возвращает количество сохранённых чеков.
func (r *MemoryRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.receipts), nil
}
