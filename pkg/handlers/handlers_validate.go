package handlers

import (
	"net/http"
	"strings"

	"github.com/arnavshah/double-bubble-api-go/pkg/analyzer"
	"github.com/arnavshah/double-bubble-api-go/pkg/models"
	"github.com/gin-gonic/gin"
)

// ValidateInput dry-runs normalization on a JSON body or CSV upload and
// reports what would be dropped, without running the analysis
func (h *Handler) ValidateInput(c *gin.Context) {
	var rows []models.RawRow
	params := h.Defaults

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		var ok bool
		if rows, ok = h.readUpload(c); !ok {
			return
		}
		params = analyzer.ParseParams(formParams(c), params)
	} else {
		var input models.AnalyzeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"valid": false,
				"error": err.Error(),
			})
			return
		}
		rows = input.Rows()
		params = analyzer.ParseParams(analyzer.StringParams(input.Params), params)
	}

	if len(rows) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "At least one grid or interval row is required",
		})
		return
	}

	shifts, stats := analyzer.Normalize(rows, params)
	if len(shifts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"valid": false,
			"error": "No row produced a shift",
			"stats": stats,
		})
		return
	}

	employees := make(map[string]bool)
	for _, s := range shifts {
		employees[s.EmployeeID] = true
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": stats,
		"counts": gin.H{
			"employee_count": len(employees),
			"shift_count":    len(shifts),
		},
	})
}
