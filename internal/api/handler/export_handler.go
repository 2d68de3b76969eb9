package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

type ExportHandler struct {
	export ExportService
}

func NewExportHandler(export ExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// StudentCalendar отдаёт записи студента в формате iCalendar
// GET /appointments/student/:email/calendar.ics
func (h *ExportHandler) StudentCalendar(c *gin.Context) {
	data, err := h.export.StudentCalendar(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	attachment(c, "appointments.ics")
	c.Data(http.StatusOK, contentTypeICS, data)
}

// CourseWorkbook отдаёт записи курса в xlsx
// GET /appointments/professor/:course_id/export
func (h *ExportHandler) CourseWorkbook(c *gin.Context) {
	buf, filename, err := h.export.CourseWorkbook(c.Request.Context(), c.Param("course_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}
