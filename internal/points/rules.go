// Package points начисляет баллы за чек и кэширует результаты расчёта.
package points

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mmeshcher/receipt-processor/internal/model"
)

const (
	roundTotalBonus    = 50
	quarterTotalBonus  = 25
	itemPairBonus      = 5
	descriptionRate    = 0.2
	oddDayBonus        = 6
	afternoonBonus     = 10
	afternoonStartHour = 14
	afternoonEndHour   = 16

	// maxItemBonus ограничивает баллы за одну позицию, чтобы сумма не переполняла int64.
	maxItemBonus = 1 << 53
)

// Calculate возвращает количество баллов за чек.
// Каждое правило применяется независимо; отсутствующие поля баллов не дают.
func Calculate(r model.Receipt) int64 {
	var total int64

	total += retailerPoints(r.Retailer)
	total += totalPoints(r.Total)
	total += itemPoints(r.Items)
	total += datePoints(r.PurchaseDate)
	total += timePoints(r.PurchaseTime)

	return total
}

// Один балл за каждый латинский буквенно-цифровой символ.
func retailerPoints(retailer string) int64 {
	var n int64
	for i := 0; i < len(retailer); i++ {
		c := retailer[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			n++
		}
	}
	return n
}

func totalPoints(total float64) int64 {
	if total == 0 {
		return 0
	}

	var n int64
	if total == math.Floor(total) {
		n += roundTotalBonus
	}
	if math.Mod(total, 0.25) == 0 {
		n += quarterTotalBonus
	}
	return n
}

func itemPoints(items []model.Item) int64 {
	n := int64(len(items)/2) * itemPairBonus

	for _, it := range items {
		desc := strings.TrimSpace(it.ShortDescription)
		// длина считается в кодовых единицах UTF-16, как у клиентов API
		if len(utf16.Encode([]rune(desc)))%3 == 0 && it.Price != 0 {
			n += descriptionBonus(it.Price)
		}
	}

	return n
}

func descriptionBonus(price float64) int64 {
	b := math.Ceil(price * descriptionRate)
	switch {
	case math.IsNaN(b):
		return 0
	case b > maxItemBonus:
		return maxItemBonus
	case b < -maxItemBonus:
		return -maxItemBonus
	}
	return int64(b)
}

func datePoints(date string) int64 {
	if date == "" {
		return 0
	}

	parts := strings.Split(date, "-")
	if len(parts) < 3 {
		return 0
	}

	// нечисловой день баллов не даёт, хотя нестрогое сравнение с NaN засчитало бы его нечётным
	day, err := strconv.Atoi(parts[2])
	if err != nil || day%2 == 0 {
		return 0
	}
	return oddDayBonus
}

func timePoints(clock string) int64 {
	if clock == "" {
		return 0
	}

	hour, err := strconv.Atoi(strings.SplitN(clock, ":", 2)[0])
	if err != nil {
		return 0
	}

	if hour >= afternoonStartHour && hour < afternoonEndHour {
		return afternoonBonus
	}
	return 0
}
