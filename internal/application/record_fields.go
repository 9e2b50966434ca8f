package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"shopify-insights-service/internal/domain"
	"shopify-insights-service/internal/ports"
)

// Explicit field projections, one per entity. Only the fields listed here are
// ever written on update; identifiers and created_at stay immutable.

func applyProductFields(p *domain.Product, rec ports.Record) {
	p.Title = recordString(rec, "title")
	p.Vendor = recordString(rec, "vendor")
	p.ProductType = recordString(rec, "product_type")
}

func applyOrderFields(o *domain.Order, rec ports.Record) error {
	price, err := recordDecimal(rec, "total_price")
	if err != nil {
		return err
	}
	o.TotalPrice = price
	o.Currency = recordStringDefault(rec, "currency", "USD")
	return nil
}

func applyCustomerFields(c *domain.Customer, rec ports.Record) error {
	spent, err := recordDecimal(rec, "total_spent")
	if err != nil {
		return err
	}
	c.FirstName = recordString(rec, "first_name")
	c.LastName = recordString(rec, "last_name")
	c.Email = recordString(rec, "email")
	c.TotalSpent = spent
	return nil
}

// externalID extracts the upstream id as a string. Shopify ids are large
// integers; the live source decodes them as json.Number so no precision is
// lost on the way to the reconciliation key.
func externalID(rec ports.Record) (string, bool) {
	switch v := rec["id"].(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}

func recordString(rec ports.Record, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func recordStringDefault(rec ports.Record, key, fallback string) string {
	if v, ok := rec[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// recordDecimal coerces a monetary field. Missing fields default to zero;
// unparseable values are a per-record error.
func recordDecimal(rec ports.Record, key string) (decimal.Decimal, error) {
	switch v := rec[key].(type) {
	case nil:
		return decimal.Zero, nil
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q is not a monetary amount: %w", key, err)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %q is not a monetary amount: %w", key, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	default:
		return decimal.Zero, fmt.Errorf("field %q has unsupported type %T", key, v)
	}
}

// recordTime parses an ISO-8601 timestamp; the RFC3339 layout already
// normalizes the Z suffix to a UTC offset.
func recordTime(rec ports.Record, key string) (time.Time, error) {
	v, ok := rec[key].(string)
	if !ok || v == "" {
		return time.Time{}, fmt.Errorf("field %q is missing", key)
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q is not a timestamp: %w", key, err)
	}
	return t, nil
}

// recordTimeOrNow is the lenient variant used for products, whose creation
// timestamp is informational only.
func recordTimeOrNow(rec ports.Record, key string) time.Time {
	if t, err := recordTime(rec, key); err == nil {
		return t
	}
	return time.Now().UTC()
}
