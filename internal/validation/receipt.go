// Package validation содержит функции валидации входных данных.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mmeshcher/receipt-processor/internal/model"
)

var (
	// ErrInvalidRetailer возвращается, если название магазина отсутствует или не является строкой.
	ErrInvalidRetailer = errors.New("invalid retailer")
	// ErrInvalidPurchaseDate возвращается, если дата покупки не соответствует формату YYYY-MM-DD.
	ErrInvalidPurchaseDate = errors.New("invalid purchase date format")
	// ErrInvalidPurchaseTime возвращается, если время покупки не соответствует формату HH:mm.
	ErrInvalidPurchaseTime = errors.New("invalid purchase time format")
	// ErrInvalidItems возвращается при некорректном списке позиций.
	ErrInvalidItems = errors.New("invalid items")
	// ErrInvalidTotal возвращается, если итоговая сумма не является числом.
	ErrInvalidTotal = errors.New("invalid total")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// maxDecimal ограничивает цены и суммы: за его пределами float64 теряет
	// целые и баллы за позицию не помещаются в int64.
	maxDecimal = 1 << 53
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
	// только десятичная запись: без 0x, подчёркиваний и Inf
	decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
)

// RawReceipt описывает чек в том виде, в котором он пришёл от клиента.
// Цены и сумма могут быть как строками, так и числами.
type RawReceipt struct {
	Retailer     any `json:"retailer"`
	PurchaseDate any `json:"purchaseDate"`
	PurchaseTime any `json:"purchaseTime"`
	Items        any `json:"items"`
	Total        any `json:"total"`
}

// ValidateReceipt проверяет чек и приводит цены и итоговую сумму к числовому виду.
// Остальные поля передаются без изменений.
func ValidateReceipt(raw RawReceipt) (model.Receipt, error) {
	retailer, ok := raw.Retailer.(string)
	if !ok || retailer == "" {
		return model.Receipt{}, ErrInvalidRetailer
	}

	date, ok := raw.PurchaseDate.(string)
	if !ok || !IsValidDate(date) {
		return model.Receipt{}, fmt.Errorf("%w: %v", ErrInvalidPurchaseDate, raw.PurchaseDate)
	}

	clock, ok := raw.PurchaseTime.(string)
	if !ok || !IsValidTime(clock) {
		return model.Receipt{}, fmt.Errorf("%w: %v", ErrInvalidPurchaseTime, raw.PurchaseTime)
	}

	items, err := validateItems(raw.Items)
	if err != nil {
		return model.Receipt{}, err
	}

	total, ok := ParseDecimal(raw.Total)
	if !ok {
		return model.Receipt{}, ErrInvalidTotal
	}

	return model.Receipt{
		Retailer:     retailer,
		PurchaseDate: date,
		PurchaseTime: clock,
		Items:        items,
		Total:        total,
	}, nil
}

func validateItems(v any) ([]model.Item, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, ErrInvalidItems
	}

	items := make([]model.Item, 0, len(list))
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: item %d is not an object", ErrInvalidItems, i)
		}

		desc, ok := obj["shortDescription"].(string)
		if !ok || desc == "" {
			return nil, fmt.Errorf("%w: item %d has no description", ErrInvalidItems, i)
		}

		price, ok := ParseDecimal(obj["price"])
		if !ok {
			return nil, fmt.Errorf("%w: item %d has invalid price", ErrInvalidItems, i)
		}

		items = append(items, model.Item{
			ShortDescription: desc,
			Price:            price,
		})
	}

	return items, nil
}

// IsValidDate проверяет, что строка имеет вид YYYY-MM-DD и задаёт существующую дату.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// IsValidTime проверяет, что строка имеет вид HH:mm в 24-часовом формате.
func IsValidTime(s string) bool {
	if !timePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

// ParseDecimal приводит JSON-значение (число или строку) к конечному float64.
// Строки принимаются только в десятичной записи, модуль значения не больше 2^53.
func ParseDecimal(v any) (float64, bool) {
	var (
		f   float64
		err error
	)

	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		f, err = n.Float64()
	case string:
		s := strings.TrimSpace(n)
		if !decimalPattern.MatchString(s) {
			return 0, false
		}
		f, err = strconv.ParseFloat(s, 64)
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxDecimal {
		return 0, false
	}

	return f, true
}
