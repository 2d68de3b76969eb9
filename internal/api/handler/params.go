package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

// Форматы, в которых клиенты присылают дату и время. Без зоны время трактуется в часовом поясе сервиса.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.Invalid("invalid datetime, use ISO 8601")
}

// mustParamID разбирает UUID из параметра пути; при ошибке пишет 400
func mustParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// mustQuery читает обязательный query-параметр; при отсутствии пишет 400
func mustQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		response.BadRequest(c, name+" is required")
		return "", false
	}
	return v, true
}
