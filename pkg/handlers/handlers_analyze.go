package handlers

import (
	"errors"
	"net/http"

	"github.com/arnavshah/double-bubble-api-go/pkg/analyzer"
	"github.com/arnavshah/double-bubble-api-go/pkg/database"
	"github.com/arnavshah/double-bubble-api-go/pkg/ingest"
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/arnavshah/double-bubble-api-go/pkg/results"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyzeJSON handles the JSON-based analysis request
func (h *Handler) AnalyzeJSON(c *gin.Context) {
	var input models.AnalyzeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows := input.Rows()
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one grid or interval row is required"})
		return
	}

	params := analyzer.ParseParams(analyzer.StringParams(input.Params), h.Defaults)
	params = analyzer.ParseParams(queryParams(c), params)
	h.analyze(c, rows, params)
}

// AnalyzeCSV handles attendance CSV uploads. Parameters come from form
// fields or the query string.
func (h *Handler) AnalyzeCSV(c *gin.Context) {
	rows, ok := h.readUpload(c)
	if !ok {
		return
	}
	params := analyzer.ParseParams(formParams(c), h.Defaults)
	h.analyze(c, rows, params)
}

func (h *Handler) analyze(c *gin.Context, rows []models.RawRow, params models.Params) {
	result := analyzer.NewAnalyzer(params).Run(rows)

	run, err := results.NewRun(result)
	if err != nil {
		h.Logger.Error("render export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not render export"})
		return
	}
	if err := h.Store.Put(c.Request.Context(), run); err != nil {
		h.Logger.Error("publish run failed", zap.String("run_id", run.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store analysis result"})
		return
	}

	h.Logger.Info("analysis complete",
		zap.String("run_id", run.ID),
		zap.Int("rows", result.Stats.RowsRead),
		zap.Int("dropped", result.Stats.Dropped()),
		zap.Int("shifts", result.Summary.Shifts),
		zap.Int("flagged", result.Summary.Flagged),
	)
	h.RecordUsage(c, result.Summary)

	if c.Query("format") == "csv" {
		c.Header("X-Run-ID", run.ID)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(run.ExportCSV))
		return
	}
	c.JSON(http.StatusOK, models.AnalyzeResponse{RunID: run.ID, AnalysisResult: result})
}

// GetRun returns the stored summary of a previous run
func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":            run.ID,
		"created_at":    run.CreatedAt,
		"params":        run.Params,
		"stats":         run.Stats,
		"summary":       run.Summary,
		"coverage_gaps": run.CoverageGaps,
	})
}

// ExportRun returns the flagged-shift CSV of a previous run
func (h *Handler) ExportRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="double-bubble-`+run.ID+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(run.ExportCSV))
}

func (h *Handler) loadRun(c *gin.Context) (*results.Run, bool) {
	run, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, results.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return nil, false
	}
	if err != nil {
		h.Logger.Error("load run failed", zap.String("run_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load run"})
		return nil, false
	}
	return run, true
}

// readUpload parses the uploaded attendance file, writing the error
// response itself when the file is missing or unreadable
func (h *Handler) readUpload(c *gin.Context) ([]models.RawRow, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
		return nil, false
	}
	defer f.Close()

	rows, _, err := ingest.ReadCSV(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	return rows, true
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, summary models.Summary) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":   gorm.Expr("request_count + ?", 1),
			"total_shifts":    gorm.Expr("total_shifts + ?", summary.Shifts),
			"total_employees": gorm.Expr("total_employees + ?", summary.Employees),
			"total_flagged":   gorm.Expr("total_flagged + ?", summary.Flagged),
		}),
	}).Create(&database.APIUsage{
		KeyID:          apiKey.ID,
		Date:           today(),
		RequestCount:   1,
		TotalShifts:    summary.Shifts,
		TotalEmployees: summary.Employees,
		TotalFlagged:   summary.Flagged,
	}).Error
	if err != nil {
		h.Logger.Warn("record usage failed", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

func queryParams(c *gin.Context) map[string]string {
	out := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// formParams merges query and form values; form values win
func formParams(c *gin.Context) map[string]string {
	out := queryParams(c)
	if c.Request.MultipartForm != nil {
		for k, v := range c.Request.MultipartForm.Value {
			if len(v) > 0 {
				out[k] = v[0]
			}
		}
	}
	for k, v := range c.Request.PostForm {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
