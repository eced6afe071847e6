package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidJSON is returned when a product response is not JSON at all.
var ErrInvalidJSON = errors.New("invalid json")

const defaultProductName = "Unnamed product"

// DecodeProducts reads a product-source response body. A body that is not
// valid JSON is an error. Valid JSON of the wrong shape (not an array, or an
// array without objects) yields an empty list. Elements that are not objects
// are skipped and missing or mistyped fields fall back to defaults.
func DecodeProducts(body []byte) ([]Product, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return []Product{}, nil
	}

	products := make([]Product, 0, len(raw))
	for i, elem := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			continue
		}
		products = append(products, productFromFields(fields, i+1))
	}

	return products, nil
}

func productFromFields(fields map[string]json.RawMessage, position int) Product {
	p := Product{
		ID:          coerceString(lookup(fields, "id")),
		Name:        coerceString(lookup(fields, "name")),
		Price:       CoerceNumber(lookup(fields, "price")),
		Description: coerceString(lookup(fields, "description")),
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("item-%d", position)
	}
	if p.Name == "" {
		p.Name = defaultProductName
	}
	return p
}

// lookup prefers an exact key and falls back to a case-insensitive match,
// so both "price" and "Price" are accepted.
func lookup(fields map[string]json.RawMessage, key string) json.RawMessage {
	if v, ok := fields[key]; ok {
		return v
	}
	for k, v := range fields {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

// CoerceNumber converts a JSON number or numeric string to float64.
// Anything else, including NaN and infinities, becomes 0.
func CoerceNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var f float64
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		if err := json.Unmarshal(raw, &f); err != nil {
			return 0
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func coerceString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}
