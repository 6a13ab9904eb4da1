// Package model содержит доменные сущности сервиса обработки чеков.
package model

import "time"

// Item описывает позицию чека.
type Item struct {
	ShortDescription string  `json:"shortDescription"`
	Price            float64 `json:"price"`
}

// Receipt описывает нормализованный чек покупки.
// Нулевое значение поля означает его отсутствие.
type Receipt struct {
	Retailer     string  `json:"retailer"`
	PurchaseDate string  `json:"purchaseDate"`
	PurchaseTime string  `json:"purchaseTime"`
	Items        []Item  `json:"items"`
	Total        float64 `json:"total"`
}

// ScoredReceipt связывает сохранённый чек с начисленными баллами.
type ScoredReceipt struct {
	ID          string
	Receipt     Receipt
	Points      int64
	ProcessedAt time.Time
}
