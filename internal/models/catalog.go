package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawRow is one parsed data line, keyed by header column name. Rows are
// immutable once parsed; a row shorter than the header carries empty strings
// for the missing trailing columns.
type RawRow map[string]string

// ValidRow is a row that passed the per-row checks, paired with its 1-based
// ordinal in the source data. The ordinal survives row drops so later stages
// attribute warnings to the original line, not the surviving subset.
type ValidRow struct {
	Ordinal int
	Row     RawRow
}

// ValidationOutcome is the file-level verdict of schema validation plus the
// subset of rows that individually passed the per-row checks.
type ValidationOutcome struct {
	IsValid        bool       `json:"isValid"`
	Message        string     `json:"message"`
	ValidRows      []ValidRow `json:"-"`
	MissingColumns []string   `json:"missingColumns,omitempty"`
}

// SizeEntry is one size label with its stock count.
type SizeEntry struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// SizeMap is an insertion-ordered size → stock mapping. JSON objects do not
// guarantee key order when decoded into a Go map, but SKU emission order must
// follow the order the sizes appeared in, so the mapping is kept as a slice
// and (un)marshaled as a JSON object by hand.
type SizeMap []SizeEntry

// Get returns the stock for a size label.
func (m SizeMap) Get(size string) (int, bool) {
	for _, e := range m {
		if e.Size == size {
			return e.Stock, true
		}
	}
	return 0, false
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m SizeMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Size)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Stock)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the mapping, preserving key order.
// Values must be non-negative integers. A repeated key keeps its first
// position but takes the last value, so each size appears exactly once.
func (m *SizeMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sizes must be a JSON object")
	}
	entries := make(SizeMap, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		size := keyTok.(string)
		var stock int
		if err := dec.Decode(&stock); err != nil {
			return fmt.Errorf("stock for size %q must be an integer: %w", size, err)
		}
		if stock < 0 {
			return fmt.Errorf("stock for size %q must not be negative", size)
		}
		replaced := false
		for i := range entries {
			if entries[i].Size == size {
				entries[i].Stock = stock
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, SizeEntry{Size: size, Stock: stock})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = entries
	return nil
}

// VariantInput is one color-level variant as it appears in the source data.
// color_hex carries bare hex digits; the leading "#" is added during
// transformation.
type VariantInput struct {
	ColorName string  `json:"color_name"`
	ColorHex  string  `json:"color_hex"`
	Sizes     SizeMap `json:"sizes"`
}

// ProductInput is a normalized row, derived exactly once from a RawRow.
type ProductInput struct {
	CategoryCode string         `json:"category_code"`
	StyleCode    string         `json:"style_code"`
	ProductName  string         `json:"product_name"`
	CategoryMain string         `json:"category_main"`
	CategorySub  string         `json:"category_sub"`
	Price        float64        `json:"price"`
	IsNew        bool           `json:"isNew"`
	OnSale       bool           `json:"onSale"`
	DiscountRate float64        `json:"discountRate"`
	Description  string         `json:"description"`
	Materials    []string       `json:"materials"`
	Variants     []VariantInput `json:"variants_input"`
}

// SKU is one stock-keeping unit. The sku string is always derived as
// categoryCode-styleCode-colorCode-size, never independently assigned.
type SKU struct {
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// Variant is a color-level grouping of sizes and SKUs within a product.
// ColorCode is the display form "#"+hex, not the short code used in SKUs.
type Variant struct {
	ColorName string  `json:"color_name"`
	ColorCode string  `json:"color_code"`
	Sizes     SizeMap `json:"sizes"`
	SKUs      []SKU   `json:"skus"`
}

// Product is the terminal artifact of the pipeline. It is never mutated
// after construction, only serialized.
type Product struct {
	ProductID    string    `json:"product_id"`
	ProductName  string    `json:"product_name"`
	CategoryMain string    `json:"category_main"`
	CategorySub  string    `json:"category_sub"`
	Price        float64   `json:"price"`
	IsNew        bool      `json:"isNew"`
	OnSale       bool      `json:"onSale"`
	DiscountRate float64   `json:"discountRate"`
	NewPrice     float64   `json:"newPrice"`
	Description  string    `json:"description"`
	Materials    []string  `json:"materials"`
	Variants     []Variant `json:"variants"`
}

// Status is the single per-attempt message surfaced to the caller.
type Status struct {
	Message string `json:"message"`
	IsError bool   `json:"isError"`
}

// Warning records a non-fatal normalization fallback so operators can detect
// silent data loss. Row is the 1-based ordinal of the data row.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
