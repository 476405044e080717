package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/EtsTest-AndroidApps/QReader/internal/groups"
	"github.com/EtsTest-AndroidApps/QReader/internal/live"
	"github.com/EtsTest-AndroidApps/QReader/internal/sources"
)

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes returned with classified failures.
const (
	CodeNotFound         = "not_found"
	CodeStaleGroup       = "stale_group"
	CodeNoWebNovelRecord = "no_web_novel_record"
	CodeProvider         = "provider_error"
	CodeMalformedRange   = "malformed_range"
	CodeCancelled        = "cancelled"
)

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 without exposing it.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// classifyError maps a failure of the group engine or facade to an HTTP
// status and error code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeCancelled
	case errors.Is(err, groups.ErrStaleGroup):
		return http.StatusNotFound, CodeStaleGroup
	case errors.Is(err, groups.ErrNoWebNovelRecord):
		return http.StatusNotFound, CodeNoWebNovelRecord
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, live.ErrEmpty):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, sources.ErrUnavailable), errors.Is(err, sources.ErrNotFound):
		return http.StatusBadGateway, CodeProvider
	case errors.Is(err, groups.ErrRangeText):
		return http.StatusInternalServerError, CodeMalformedRange
	default:
		return http.StatusInternalServerError, ""
	}
}

// respondClassified sends the classified error. Unclassified errors are
// logged and hidden.
func respondClassified(c *gin.Context, err error, context string) {
	status, code := classifyError(err)
	if code == "" {
		respondInternalError(c, err, context)
		return
	}
	log.Printf("Request failed (%s): %v", context, err)
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}

// requireQuery extracts a required query parameter or responds with 400.
func requireQuery(c *gin.Context, name string) (string, bool) {
	value := c.Query(name)
	if value == "" {
		respondBadRequest(c, name+" is required")
		return "", false
	}
	return value, true
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(c *gin.Context, name string) bool {
	value, err := strconv.ParseBool(c.Query(name))
	return err == nil && value
}
