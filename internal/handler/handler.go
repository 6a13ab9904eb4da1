// Package handler содержит HTTP-обработчики API сервиса обработки чеков.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/receipt-processor/internal/model"
	"github.com/mmeshcher/receipt-processor/internal/repository"
	"github.com/mmeshcher/receipt-processor/internal/validation"
)

const defaultMaxBodyBytes = 1 << 20

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	ProcessReceipt(ctx context.Context, receipt model.Receipt) (string, error)
	GetPoints(ctx context.Context, id string) (int64, error)
	CountReceipts(ctx context.Context) (int, error)
}

// Options содержит параметры HTTP-слоя.
type Options struct {
	// AllowedOrigin задаёт значение заголовка Access-Control-Allow-Origin.
	AllowedOrigin string
	// MaxBodyBytes ограничивает размер тела запроса.
	MaxBodyBytes int64
}

// Handler реализует HTTP-обработчики API сервиса обработки чеков.
type Handler struct {
	service Service
	logger  *zap.Logger
	opts    Options
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, opts Options) *Handler {
	if opts.AllowedOrigin == "" {
		opts.AllowedOrigin = "*"
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Handler{
		service: s,
		logger:  logger,
		opts:    opts,
	}
}

type processResponse struct {
	ID string `json:"id"`
}

type pointsResponse struct {
	Points int64 `json:"points"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Receipts int    `json:"receipts"`
}

// ProcessReceipt принимает чек, проверяет его и возвращает идентификатор сохранённого результата.
func (h *Handler) ProcessReceipt(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	dec.UseNumber()

	var raw validation.RawReceipt
	if err := dec.Decode(&raw); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid receipt payload"})
		return
	}
	// после чека в теле ничего быть не должно
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid receipt payload"})
		return
	}

	receipt, err := validation.ValidateReceipt(raw)
	if err != nil {
		h.logger.Debug("receipt rejected", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := h.service.ProcessReceipt(r.Context(), receipt)
	if err != nil {
		h.logger.Error("process receipt error", zap.Error(err), zap.String("retailer", receipt.Retailer))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, processResponse{ID: id})
}

// GetPoints возвращает количество баллов, начисленных за чек.
func (h *Handler) GetPoints(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	pts, err := h.service.GetPoints(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReceiptNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Receipt not found"})
			return
		}
		h.logger.Error("get points error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, pointsResponse{Points: pts})
}

// Health сообщает о работоспособности сервиса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountReceipts(r.Context())
	if err != nil {
		h.logger.Error("health check error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Receipts: n})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response error", zap.Error(err))
	}
}
