// Package normalize turns a validated raw row into exactly one ProductInput.
// This stage never fails: every anomaly degrades to a default value, and
// malformed nested variant data degrades to the single default Black variant.
// Each fallback is reported as a non-fatal warning so silent data loss stays
// observable.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"catalog-transformer/internal/models"
)

// Scalar defaults substituted when a source field is absent or empty.
const (
	DefaultCategoryCode = "T01"
	DefaultStyleCode    = "1234"
	DefaultProductName  = "Unknown Product"
	DefaultCategoryMain = "Top"
	DefaultCategorySub  = "T-Shirt"
	DefaultColorName    = "Black"
	DefaultColorHex     = "000000"
)

// VariantSource selects how a row's variant structure is resolved. The three
// cases replace the sequential type probing of loosely typed feeds with one
// explicit match.
type VariantSource interface {
	variantSource()
}

// InlineVariants is an already structured variant sequence.
type InlineVariants []models.VariantInput

// RawTextVariants is unparsed JSON text from the variants_input column.
type RawTextVariants string

// ColumnVariants synthesizes a single variant from the companion columns
// color_name, color_hex and sizes.
type ColumnVariants struct {
	ColorName string
	ColorHex  string
	SizesJSON string
}

func (InlineVariants) variantSource()  {}
func (RawTextVariants) variantSource() {}
func (ColumnVariants) variantSource()  {}

// Normalize derives one ProductInput from a raw row. Booleans are true only
// for the exact string "True"; any other value, including "true", coerces to
// false. This is intentionally looser than the validator's two-token check
// and intentionally not the same rule.
func Normalize(row models.RawRow) (models.ProductInput, []models.Warning) {
	input := models.ProductInput{
		CategoryCode: fieldOr(row, "category_code", DefaultCategoryCode),
		StyleCode:    fieldOr(row, "style_code", DefaultStyleCode),
		ProductName:  fieldOr(row, "product_name", DefaultProductName),
		CategoryMain: fieldOr(row, "category_main", DefaultCategoryMain),
		CategorySub:  fieldOr(row, "category_sub", DefaultCategorySub),
		Price:        floatOr(row["price"], 0),
		IsNew:        row["isNew"] == "True",
		OnSale:       row["onSale"] == "True",
		DiscountRate: floatOr(row["discountRate"], 1.0),
		Description:  row["description"],
		Materials:    materials(row["materials"]),
	}

	variants, warnings := ResolveVariants(variantSourceFor(row))
	input.Variants = variants

	return input, warnings
}

// ResolveVariants resolves a variant source into a non-empty variant
// sequence. Malformed JSON, a non-array shape, or an empty list all fall back
// to the single default Black variant with the default size map, reported as
// a warning rather than an error.
func ResolveVariants(src VariantSource) ([]models.VariantInput, []models.Warning) {
	switch s := src.(type) {
	case InlineVariants:
		if len(s) == 0 {
			return fallback("variant list is empty, substituted default variant")
		}
		return s, nil

	case RawTextVariants:
		var parsed []models.VariantInput
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return fallback("variants_input could not be parsed, substituted default variant: " + err.Error())
		}
		if len(parsed) == 0 {
			return fallback("variants_input is empty, substituted default variant")
		}
		return parsed, nil

	case ColumnVariants:
		variant := models.VariantInput{
			ColorName: orDefault(s.ColorName, DefaultColorName),
			ColorHex:  orDefault(s.ColorHex, DefaultColorHex),
			Sizes:     DefaultSizes(),
		}
		if strings.TrimSpace(s.SizesJSON) != "" {
			var sizes models.SizeMap
			if err := json.Unmarshal([]byte(s.SizesJSON), &sizes); err != nil {
				return fallback("sizes could not be parsed, substituted default variant: " + err.Error())
			}
			if len(sizes) > 0 {
				variant.Sizes = sizes
			}
		}
		return []models.VariantInput{variant}, nil
	}

	return fallback("no variant source, substituted default variant")
}

// FallbackVariant is the default black, S/M/L-sized variant substituted when
// nested variant data cannot be resolved.
func FallbackVariant() models.VariantInput {
	return models.VariantInput{
		ColorName: DefaultColorName,
		ColorHex:  DefaultColorHex,
		Sizes:     DefaultSizes(),
	}
}

// DefaultSizes returns the default size map {S:10, M:10, L:10}.
func DefaultSizes() models.SizeMap {
	return models.SizeMap{
		{Size: "S", Stock: 10},
		{Size: "M", Stock: 10},
		{Size: "L", Stock: 10},
	}
}

func variantSourceFor(row models.RawRow) VariantSource {
	if raw, ok := row["variants_input"]; ok && strings.TrimSpace(raw) != "" {
		return RawTextVariants(raw)
	}
	return ColumnVariants{
		ColorName: row["color_name"],
		ColorHex:  row["color_hex"],
		SizesJSON: row["sizes"],
	}
}

func fallback(message string) ([]models.VariantInput, []models.Warning) {
	return []models.VariantInput{FallbackVariant()}, []models.Warning{{Message: message}}
}

// materials passes a JSON array through as the sequence, wraps a non-empty
// scalar into a one-element sequence, and maps an empty cell to an empty
// sequence.
func materials(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return list
		}
	}
	return []string{raw}
}

func fieldOr(row models.RawRow, col, fallback string) string {
	if v := row[col]; v != "" {
		return v
	}
	return fallback
}

func floatOr(raw string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
