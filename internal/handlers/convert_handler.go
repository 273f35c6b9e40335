package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"catalog-transformer/internal/models"
	"catalog-transformer/internal/pipeline"
	"catalog-transformer/internal/repository"
	"catalog-transformer/internal/store"
)

// DefaultSession is used when the caller sends no X-Session-ID header.
const DefaultSession = "default"

type ConvertHandler struct {
	pipeline *pipeline.Pipeline
	results  store.ResultStore
	runs     *repository.RunsRepository // nil when run history is disabled
	logger   *logrus.Logger
}

func NewConvertHandler(p *pipeline.Pipeline, results store.ResultStore, runs *repository.RunsRepository, logger *logrus.Logger) *ConvertHandler {
	return &ConvertHandler{
		pipeline: p,
		results:  results,
		runs:     runs,
		logger:   logger,
	}
}

// ConvertCatalog runs the CSV → catalog transform on an uploaded file
// @Summary Convert a product feed
// @Description Upload a CSV product feed and receive the normalized catalog document
// @Tags Catalog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV product feed"
// @Success 200 {object} models.ConvertResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /catalog/convert [post]
func (h *ConvertHandler) ConvertCatalog(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeFileRequired,
				Message: "Please upload a CSV file",
			},
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeReadFailed,
				Message: "Failed to read uploaded file",
			},
		})
		return
	}

	result := h.pipeline.Run(string(content), header.Filename)
	if result.Status.IsError {
		status := http.StatusBadRequest
		if result.ErrorCode == models.ErrCodeSchemaError || result.ErrorCode == models.ErrCodeNoValidRows {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    result.ErrorCode,
				Message: result.Status.Message,
			},
		})
		return
	}

	document, err := result.Document()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "SERIALIZE_FAILED",
				Message: "Failed to serialize catalog document",
			},
		})
		return
	}

	session := sessionID(c)
	last := &store.LastResult{
		Filename:     header.Filename,
		Document:     document,
		Count:        result.Count,
		FallbackRows: result.FallbackRows,
		SavedAt:      time.Now(),
	}
	if err := h.results.Save(c.Request.Context(), session, last); err != nil {
		h.logger.WithError(err).Warn("failed to store last result")
	}

	if h.runs != nil {
		compact, _ := json.Marshal(result.Products)
		run := &models.ConversionRun{
			Filename:     header.Filename,
			ProductCount: result.Count,
			FallbackRows: result.FallbackRows,
			Document:     datatypes.JSON(compact),
		}
		if err := h.runs.Create(run); err != nil {
			h.logger.WithError(err).Warn("failed to persist conversion run")
		}
	}

	c.JSON(http.StatusOK, models.ConvertResponse{
		Success:      true,
		Status:       result.Status,
		Count:        result.Count,
		FallbackRows: result.FallbackRows,
		Warnings:     result.Warnings,
		Products:     result.Products,
	})
}

// GetLastResult restores the session's most recent conversion
// @Summary Get the last conversion result
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Router /catalog/result [get]
func (h *ConvertHandler) GetLastResult(c *gin.Context) {
	last, err := h.results.Load(c.Request.Context(), sessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "STORE_ERROR",
				Message: "Failed to load last result",
			},
		})
		return
	}
	if last == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeNoResult,
				Message: "No conversion result available",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"filename":     last.Filename,
		"count":        last.Count,
		"fallbackRows": last.FallbackRows,
		"savedAt":      last.SavedAt,
		"document":     last.Document,
	})
}

// ExportCatalog downloads the session's last document as a dated JSON file
// @Summary Export the last catalog document
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /catalog/export [get]
func (h *ConvertHandler) ExportCatalog(c *gin.Context) {
	last, err := h.results.Load(c.Request.Context(), sessionID(c))
	if err != nil || last == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeNoResult,
				Message: "No conversion result available to export",
			},
		})
		return
	}

	filename := pipeline.ExportFilename(last.SavedAt)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/json", last.Document)
}

// GetRuns lists persisted conversion runs
// @Summary List conversion run history
// @Tags Catalog
// @Produce json
// @Param limit query int false "Max runs" default(20)
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} models.ErrorResponse
// @Router /catalog/runs [get]
func (h *ConvertHandler) GetRuns(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeHistoryDisabled,
				Message: "Run history is not enabled (no database configured)",
			},
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	runs, err := h.runs.List(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve conversion runs",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    runs,
	})
}

// GetRun returns one persisted conversion run with its full document
// @Summary Get a conversion run by ID
// @Tags Catalog
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /catalog/runs/{id} [get]
func (h *ConvertHandler) GetRun(c *gin.Context) {
	if h.runs == nil {
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    models.ErrCodeHistoryDisabled,
				Message: "Run history is not enabled (no database configured)",
			},
		})
		return
	}

	run, err := h.runs.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "RUN_NOT_FOUND",
					Message: "Conversion run not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FETCH_FAILED",
				Message: "Failed to retrieve conversion run",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    run,
	})
}

func sessionID(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return DefaultSession
}
