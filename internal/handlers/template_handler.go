package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"catalog-transformer/internal/models"
)

type TemplateHandler struct{}

func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// GetTemplate returns the import template definition or file
// @Summary Get the feed template
// @Description Download the catalog feed template as JSON definition, CSV or XLSX
// @Tags Catalog
// @Produce json
// @Param format query string false "json, csv or xlsx" default(json)
// @Success 200 {object} map[string]interface{}
// @Router /catalog/template [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.CatalogImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template with one sample row
func (h *TemplateHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=catalog_feed_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	sample := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
		sample[i] = col.Example
	}
	writer.Write(headers)
	writer.Write(sample)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *TemplateHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Catalog"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		sampleCell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, sampleCell, col.Example)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Catalog Feed Instructions")
	f.SetCellValue("Instructions", "A3", "Columns marked * must appear in the header; conversion fails without them.")
	f.SetCellValue("Instructions", "A4", "isNew and onSale must be exactly True or False.")
	f.SetCellValue("Instructions", "A5", "variants_input is a JSON array; rows with malformed variant JSON still convert using a default Black variant.")
	f.SetCellValue("Instructions", "A6", "Note: conversion accepts .csv uploads only; this workbook is a reference layout.")

	f.SetCellValue("Instructions", "A8", "Column Definitions:")
	f.SetCellValue("Instructions", "A9", "Column")
	f.SetCellValue("Instructions", "B9", "Description")
	f.SetCellValue("Instructions", "C9", "Required")
	f.SetCellValue("Instructions", "D9", "Type")
	f.SetCellValue("Instructions", "E9", "Example")

	for i, col := range template.Columns {
		row := i + 10
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 20)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "C", 12)
	f.SetColWidth("Instructions", "D", "D", 12)
	f.SetColWidth("Instructions", "E", "E", 50)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=catalog_feed_template.xlsx")

	f.Write(c.Writer)
}
