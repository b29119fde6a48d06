package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nutrilookup/lookup"
	"nutrilookup/nutrition"
)

type nutritionService interface {
	Lookup(ctx context.Context, query string) ([]nutrition.Record, error)
	Suggest(ctx context.Context, req lookup.SuggestRequest) ([]string, error)
}

// Handler serves the lookup and suggestion endpoints over a nutrition service.
type Handler struct {
	svc nutritionService
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc nutritionService) *Handler {
	return &Handler{svc: svc}
}

type lookupRequest struct {
	Query string `json:"query"`
}

type lookupResponse struct {
	Foods []nutrition.Record `json:"foods"`
}

type suggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

type errorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// POST /api/foods/lookup
func (h *Handler) Lookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Type: "validation"})
		return
	}

	records, err := h.svc.Lookup(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, lookupResponse{Foods: records})
}

// POST /api/suggestions
func (h *Handler) Suggest(c *gin.Context) {
	var req lookup.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Type: "validation"})
		return
	}

	suggestions, err := h.svc.Suggest(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestResponse{Suggestions: suggestions})
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func writeError(c *gin.Context, err error) {
	status := lookup.StatusCode(err)
	c.JSON(status, errorResponse{Error: publicMessage(err, status), Type: lookup.ErrorType(err)})
}

// publicMessage hides upstream details from clients; validation errors are the caller's to read.
func publicMessage(err error, status int) string {
	switch {
	case errors.Is(err, lookup.ErrValidation):
		return err.Error()
	case status == http.StatusGatewayTimeout:
		return "nutrition lookup timed out"
	case errors.Is(err, lookup.ErrGenerator):
		return "nutrition source unavailable"
	case errors.Is(err, lookup.ErrUpstreamFormat), errors.Is(err, lookup.ErrSchema):
		return "nutrition source returned an unreadable answer"
	default:
		return "internal error"
	}
}
