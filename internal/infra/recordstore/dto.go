package recordstore

import (
	"time"

	"github.com/shopspring/decimal"
)

type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime time.Time      `json:"createdTime"`
}

type recordRequest struct {
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

func (r *Record) stringField(name string) string {
	if v, ok := r.Fields[name].(string); ok {
		return v
	}
	return ""
}

func (r *Record) decimalField(name string) decimal.Decimal {
	switch v := r.Fields[name].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func (r *Record) intField(name string) int {
	if v, ok := r.Fields[name].(float64); ok {
		return int(v)
	}
	return 0
}

func (r *Record) timeField(name string) time.Time {
	raw := r.stringField(name)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
