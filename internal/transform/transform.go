// Package transform builds the final product/variant/SKU tree from
// normalized product inputs.
package transform

import (
	"math"

	"catalog-transformer/internal/models"
)

// Transformer derives products from normalized inputs. This stage never
// fails.
type Transformer struct {
	colors *ColorResolver
}

// NewTransformer creates a transformer using the given color resolver.
func NewTransformer(colors *ColorResolver) *Transformer {
	return &Transformer{colors: colors}
}

// Transform derives exactly one Product from a ProductInput.
//
// product_id is categoryCode-styleCode, computed once. When the product is
// on sale, newPrice is price*discountRate rounded half away from zero to an
// integer; otherwise price passes through untouched, fractions included.
// SKUs are emitted per (color, size) in the size map's insertion order, so
// they are unique within the product. The variant's display color is
// "#"+hex; callers must ensure the hex digits do not already carry a leading
// marker.
func (t *Transformer) Transform(input models.ProductInput) models.Product {
	productID := input.CategoryCode + "-" + input.StyleCode

	newPrice := input.Price
	if input.OnSale {
		newPrice = math.Round(input.Price * input.DiscountRate)
	}

	variants := make([]models.Variant, 0, len(input.Variants))
	for _, v := range input.Variants {
		colorCode := t.colors.Resolve(v.ColorName)

		skus := make([]models.SKU, 0, len(v.Sizes))
		for _, entry := range v.Sizes {
			skus = append(skus, models.SKU{
				SKU:   productID + "-" + colorCode + "-" + entry.Size,
				Size:  entry.Size,
				Stock: entry.Stock,
			})
		}

		variants = append(variants, models.Variant{
			ColorName: v.ColorName,
			ColorCode: "#" + v.ColorHex,
			Sizes:     v.Sizes,
			SKUs:      skus,
		})
	}

	return models.Product{
		ProductID:    productID,
		ProductName:  input.ProductName,
		CategoryMain: input.CategoryMain,
		CategorySub:  input.CategorySub,
		Price:        input.Price,
		IsNew:        input.IsNew,
		OnSale:       input.OnSale,
		DiscountRate: input.DiscountRate,
		NewPrice:     newPrice,
		Description:  input.Description,
		Materials:    input.Materials,
		Variants:     variants,
	}
}
