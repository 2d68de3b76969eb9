package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/model"
)

const codeOK = "ok"

// Response единый конверт ответа API
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK 200
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: codeOK, Message: "success", Data: data})
}

// Created 201
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: codeOK, Message: "success", Data: data})
}

// Message 200 без данных
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Code: codeOK, Message: message})
}

// Error отвечает произвольным статусом и кодом
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, model.ErrInvalidRequest.Code, message)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal", "internal server error")
}

// StatusOf сопоставляет класс ошибки с HTTP статусом
func StatusOf(err error) int {
	if errors.Is(err, model.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	switch model.KindOf(err) {
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindConflict, model.KindConsistency:
		return http.StatusConflict
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Fail отвечает ошибкой бизнес-операции; внутренние ошибки наружу не раскрываются.
// Текст ошибки сохраняется в c.Errors для логирующего middleware.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)

	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		InternalError(c)
		return
	}
	Error(c, status, model.CodeOf(err), err.Error())
}
