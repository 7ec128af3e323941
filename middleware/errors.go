package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/junaidrashid-git/glowhub/apperror"
)

// StatusFor maps an operation error onto an HTTP status.
func StatusFor(err error) int {
	var e *apperror.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindInvalidArgument:
		return http.StatusBadRequest
	case apperror.KindConstraintViolation:
		return http.StatusConflict
	case apperror.KindEmptyCart, apperror.KindInvalidCoupon, apperror.KindCouponNotActive, apperror.KindBelowMinimum:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Fail writes err as a JSON error body and aborts the chain.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	body := gin.H{"error": err.Error()}
	var e *apperror.Error
	if errors.As(err, &e) {
		body["kind"] = e.Kind.String()
	} else {
		// Store or driver failure; don't leak internals to the client.
		_ = c.Error(err)
		body["error"] = "internal error"
	}
	c.AbortWithStatusJSON(status, body)
}

// UintParam reads a positive numeric path parameter.
func UintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.InvalidArgument("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// Bind decodes the JSON body into dst, failing the request on error.
func Bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Fail(c, apperror.InvalidArgument("invalid input: %v", err))
		return false
	}
	return true
}

// Logger logs one line per request, plus any errors attached by handlers.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
			return
		}
		log.Info("request", fields...)
	}
}
