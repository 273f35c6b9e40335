package pipeline

import (
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-transformer/internal/models"
	"catalog-transformer/internal/transform"
)

const feedHeader = "category_code,style_code,product_name,category_main,category_sub,price,isNew,onSale,discountRate,description,materials,variants_input"

func newTestPipeline() *Pipeline {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(transform.NewColorResolver(nil), logger)
}

func TestRunEndToEnd(t *testing.T) {
	content := feedHeader + "\n" +
		`T01,1234,Basic Tee,Top,T-Shirt,20,True,True,0.5,"A shirt",Cotton,"[{""color_name"":""Red"",""color_hex"":""FF0000"",""sizes"":{""M"":5}}]"`

	result := newTestPipeline().Run(content, "feed.csv")

	assert.False(t, result.Status.IsError)
	assert.Equal(t, "Converted 1 products", result.Status.Message)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 0, result.FallbackRows)

	require.Len(t, result.Products, 1)
	product := result.Products[0]
	assert.Equal(t, "T01-1234", product.ProductID)
	assert.Equal(t, "Basic Tee", product.ProductName)
	assert.Equal(t, 10.0, product.NewPrice)
	assert.Equal(t, "A shirt", product.Description)
	assert.Equal(t, []string{"Cotton"}, product.Materials)

	require.Len(t, product.Variants, 1)
	variant := product.Variants[0]
	assert.Equal(t, "Red", variant.ColorName)
	assert.Equal(t, "#FF0000", variant.ColorCode)
	require.Len(t, variant.SKUs, 1)
	assert.Equal(t, models.SKU{SKU: "T01-1234-RED-M", Size: "M", Stock: 5}, variant.SKUs[0])
}

func TestRunUnsupportedExtension(t *testing.T) {
	result := newTestPipeline().Run("a,b\n1,2", "feed.json")

	assert.True(t, result.Status.IsError)
	assert.Equal(t, models.ErrCodeUnsupportedFormat, result.ErrorCode)
	// message is capitalized for display
	assert.True(t, strings.HasPrefix(result.Status.Message, "Unsupported"), result.Status.Message)
	assert.Contains(t, result.Status.Message, ".json")
}

func TestRunHeaderOnlyFile(t *testing.T) {
	result := newTestPipeline().Run(feedHeader, "feed.csv")

	assert.True(t, result.Status.IsError)
	assert.Equal(t, models.ErrCodeParseError, result.ErrorCode)
	assert.Equal(t, "Missing header or data", result.Status.Message)
}

func TestRunMissingColumns(t *testing.T) {
	content := "category_code,style_code\nT01,1234"
	result := newTestPipeline().Run(content, "feed.csv")

	assert.True(t, result.Status.IsError)
	assert.Equal(t, models.ErrCodeSchemaError, result.ErrorCode)
	assert.Contains(t, result.Status.Message, "price")
	assert.Contains(t, result.Status.Message, "variants_input")
	assert.NotContains(t, result.Status.Message, "category_code,")
	assert.Empty(t, result.Products)
}

func TestRunAllRowsInvalid(t *testing.T) {
	content := feedHeader + "\n" +
		`T01,1234,Basic Tee,Top,T-Shirt,oops,True,True,0.5,x,Cotton,"[]"`

	result := newTestPipeline().Run(content, "feed.csv")

	assert.True(t, result.Status.IsError)
	assert.Equal(t, models.ErrCodeNoValidRows, result.ErrorCode)
	assert.Contains(t, result.Status.Message, "price must be a valid number")
}

func TestRunDropsBadRowsConvertsRest(t *testing.T) {
	content := feedHeader + "\n" +
		`T01,1234,Basic Tee,Top,T-Shirt,20,True,False,0.5,x,Cotton,"[{""color_name"":""Red"",""color_hex"":""FF0000"",""sizes"":{""M"":5}}]"` + "\n" +
		`T02,5678,Bad Tee,Top,T-Shirt,oops,True,False,0.5,x,Cotton,"[]"`

	result := newTestPipeline().Run(content, "feed.csv")

	assert.False(t, result.Status.IsError)
	assert.Equal(t, "Converted 1 products", result.Status.Message)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "T01-1234", result.Products[0].ProductID)
}

func TestRunMalformedVariantsFallsBackWithWarning(t *testing.T) {
	// variants_input passes validation as a JSON array but its entries do
	// not resolve, so the row converts with the default Black variant
	content := feedHeader + "\n" +
		`T01,1234,Basic Tee,Top,T-Shirt,20,True,False,0.5,x,Cotton,"[{""color_name"":""Red"",""sizes"":""broken""}]"`

	result := newTestPipeline().Run(content, "feed.csv")

	assert.False(t, result.Status.IsError)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, result.FallbackRows)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 1, result.Warnings[0].Row)

	require.Len(t, result.Products, 1)
	variant := result.Products[0].Variants[0]
	assert.Equal(t, "Black", variant.ColorName)
	assert.Equal(t, "#000000", variant.ColorCode)
	require.Len(t, variant.SKUs, 3)
	assert.Equal(t, "T01-1234-BLK-S", variant.SKUs[0].SKU)
	assert.Equal(t, 10, variant.SKUs[0].Stock)
}

func TestRunWarningRowsSurviveDroppedRows(t *testing.T) {
	// row 1 is dropped by validation, row 2 falls back during normalization;
	// the warning must point at data row 2, not at the surviving subset
	content := feedHeader + "\n" +
		`T01,1234,Bad Tee,Top,T-Shirt,oops,True,False,0.5,x,Cotton,"[]"` + "\n" +
		`T02,5678,Basic Tee,Top,T-Shirt,20,True,False,0.5,x,Cotton,"[{""color_name"":""Red"",""sizes"":""broken""}]"`

	result := newTestPipeline().Run(content, "feed.csv")

	assert.False(t, result.Status.IsError)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, 1, result.FallbackRows)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 2, result.Warnings[0].Row)
}

func TestDocumentPrettyPrints(t *testing.T) {
	content := feedHeader + "\n" +
		`T01,1234,Basic Tee,Top,T-Shirt,20,True,True,0.5,x,Cotton,"[{""color_name"":""Red"",""color_hex"":""FF0000"",""sizes"":{""M"":5}}]"`

	result := newTestPipeline().Run(content, "feed.csv")
	doc, err := result.Document()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(doc), "[\n  {"))

	var products []models.Product
	require.NoError(t, json.Unmarshal(doc, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "T01-1234", products[0].ProductID)
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2026, 8, 28, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "products_2026-08-28.json", ExportFilename(at))
}
