package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		want     int
		wantType string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"validation", fmt.Errorf("%w: query is required", ErrValidation), http.StatusBadRequest, "validation"},
		{"upstream format", fmt.Errorf("%w: no array", ErrUpstreamFormat), http.StatusBadGateway, "upstream_format"},
		{"schema", fmt.Errorf("%w: missing field", ErrSchema), http.StatusBadGateway, "schema"},
		{"generator", fmt.Errorf("%w: %w", ErrGenerator, errors.New("refused")), http.StatusBadGateway, "generator"},
		{"generator deadline", fmt.Errorf("%w: %w", ErrGenerator, context.DeadlineExceeded), http.StatusGatewayTimeout, "generator"},
		{"bare deadline", context.DeadlineExceeded, http.StatusInternalServerError, "internal"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
			assert.Equal(t, tt.wantType, ErrorType(tt.err))
		})
	}
}
