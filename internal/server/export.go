package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mkoecher/audit-cockpit/internal/common"
	"github.com/mkoecher/audit-cockpit/internal/report"
)

func (s *Server) handleExportCSV(c *gin.Context) {
	res := s.result()
	if res == nil {
		s.fail(c, common.ErrNoResult)
		return
	}
	data, err := report.WriteCSV(res.Items)
	if err != nil {
		s.fail(c, common.WrapError(err, "rendering csv export"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="audit_data.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (s *Server) handleExportPDF(c *gin.Context) {
	res := s.result()
	if res == nil {
		s.fail(c, common.ErrNoResult)
		return
	}
	data, err := report.WritePDF(res.Items, res.Summary)
	if err != nil {
		s.fail(c, common.WrapError(err, "rendering pdf report"))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="audit_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []any{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := s.runs.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, common.WrapError(err, "listing archived runs"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleRunCSV(c *gin.Context) {
	if s.runs == nil {
		s.fail(c, common.ErrNotFound)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.fail(c, common.NewAppError("BAD_RUN_ID", "run id must be a UUID", common.ErrInvalidInput))
		return
	}
	csv, err := s.runs.GetRunCSV(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="audit_`+id.String()+`.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
