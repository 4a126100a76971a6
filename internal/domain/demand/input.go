package demand

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ValidationError reports which field of an Input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ParseDate accepts ISO-8601 and the other layouts dateparse recognizes;
// zone-less values are read as UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &ValidationError{Field: "date", Reason: "is required"}
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Reason: "is not a recognizable date"}
	}
	return t.UTC(), nil
}

// Apply validates in and copies it onto rec. Identity and ownership fields are
// left untouched.
func (in Input) Apply(rec *Record) error {
	date, err := ParseDate(in.Date)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return &ValidationError{Field: "productName", Reason: "is required"}
	}
	if in.Quantity == nil {
		return &ValidationError{Field: "quantity", Reason: "is required"}
	}
	if err := nonNegative("quantity", *in.Quantity); err != nil {
		return err
	}
	price := 0.0
	if in.Price != nil {
		price = *in.Price
	}
	if err := nonNegative("price", price); err != nil {
		return err
	}

	var productID *string
	if in.ProductID != nil {
		if id := strings.TrimSpace(*in.ProductID); id != "" {
			productID = &id
		}
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	rec.Date = date
	rec.ProductName = name
	rec.ProductID = productID
	rec.Quantity = *in.Quantity
	rec.Price = price
	rec.Unit = unit
	return nil
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Reason: "must be a finite number"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Reason: "must be non-negative"}
	}
	return nil
}
