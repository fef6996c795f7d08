package services

import (
	"bookings/src/config"
	"bookings/src/models"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Zero-padded HH:mm strings compare lexicographically in time order, so
// touching slots (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return !(aStart >= bEnd || aEnd <= bStart)
}

// FindConflict returns the first slot-holding reservation overlapping
// [start, end), or nil.
func FindConflict(existing []*models.Reservation, start, end string) *models.Reservation {
	for _, r := range existing {
		if !r.Status.Blocking() {
			continue
		}
		if Overlaps(start, end, r.StartTime, r.EndTime) {
			return r
		}
	}
	return nil
}

func IsISODate(s string) bool {
	if len(s) != len(config.DATE_FORMAT) {
		return false
	}
	_, err := time.Parse(config.DATE_FORMAT, s)
	return err == nil
}

// IsTimeOfDay accepts zero-padded 24h HH:mm only.
func IsTimeOfDay(s string) bool {
	if len(s) != len(config.TIME_OF_DAY_FORMAT) {
		return false
	}
	_, err := time.Parse(config.TIME_OF_DAY_FORMAT, s)
	return err == nil
}

// NormalizePrice maps negative or non-finite amounts to 0.
func NormalizePrice(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// TotalPriceFromJSON reads totalPrice from a raw request body. Numbers and
// numeric strings are accepted; anything else is 0.
func TotalPriceFromJSON(body []byte) float64 {
	res := gjson.GetBytes(body, "totalPrice")
	switch res.Type {
	case gjson.Number:
		return NormalizePrice(res.Num)
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(res.Str), 64)
		if err != nil {
			return 0
		}
		return NormalizePrice(v)
	}
	return 0
}
