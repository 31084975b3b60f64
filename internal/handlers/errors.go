package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kaspistat/catalog-service/internal/apperr"
)

// errorMessageKey carries the message of the last error response so the
// request log can record it.
const errorMessageKey = "error_message"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError writes err as {"error": msg} with the status of its kind.
// Internal errors are logged and never leak their cause.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	msg := apperr.Message(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	_ = c.Error(err)
	c.Set(errorMessageKey, msg)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 0 {
		return 0, apperr.Validation("Parameter " + name + " is not valid")
	}
	return id, nil
}

// queryFloat parses an optional numeric query parameter.
func queryFloat(c *gin.Context, name string) (*float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation("Parameter " + name + " is not valid")
	}
	return &v, nil
}

// queryInt parses an optional integer query parameter, returning def when absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("Parameter " + name + " is not valid")
	}
	return v, nil
}

func queryBool(c *gin.Context, name string) bool {
	v, _ := strconv.ParseBool(c.Query(name))
	return v
}
