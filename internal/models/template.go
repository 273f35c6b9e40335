package models

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean, json
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// CatalogImportColumns returns the column definitions for the catalog feed.
// The first twelve columns must all be present in the header; the trailing
// three are companion columns consulted only when variants_input is empty.
func CatalogImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "category_code", Description: "Short category code, first half of the product id", Required: true, Type: "string", Example: "T01"},
		{Name: "style_code", Description: "Short style code, second half of the product id", Required: true, Type: "string", Example: "1234"},
		{Name: "product_name", Description: "Display name", Required: true, Type: "string", Example: "Basic Tee"},
		{Name: "category_main", Description: "Top-level category", Required: true, Type: "string", Example: "Top"},
		{Name: "category_sub", Description: "Sub category", Required: true, Type: "string", Example: "T-Shirt"},
		{Name: "price", Description: "List price, must parse as a number", Required: true, Type: "number", Example: "20"},
		{Name: "isNew", Description: "Exactly True or False", Required: true, Type: "boolean", Example: "True"},
		{Name: "onSale", Description: "Exactly True or False", Required: true, Type: "boolean", Example: "True"},
		{Name: "discountRate", Description: "Multiplier applied to price when onSale", Required: true, Type: "number", Example: "0.5"},
		{Name: "description", Description: "Free-text description", Required: true, Type: "string", Example: "A shirt"},
		{Name: "materials", Description: "Material name or JSON array of names", Required: true, Type: "string", Example: "Cotton"},
		{Name: "variants_input", Description: "JSON array of {color_name, color_hex, sizes}", Required: true, Type: "json", Example: `[{"color_name":"Red","color_hex":"FF0000","sizes":{"M":5}}]`},
		{Name: "color_name", Description: "Fallback color when variants_input is empty", Required: false, Type: "string", Example: "Black"},
		{Name: "color_hex", Description: "Fallback hex digits, no leading #", Required: false, Type: "string", Example: "000000"},
		{Name: "sizes", Description: "Fallback JSON object of size to stock", Required: false, Type: "json", Example: `{"S":10,"M":10,"L":10}`},
	}
}

// CatalogImportTemplate returns the template definition for the catalog feed
func CatalogImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "catalog",
		Version: "1.0",
		Columns: CatalogImportColumns(),
	}
}
