//go:build unit

package httperr_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-engine/internal/handler/httperr"
	"restaurant-engine/internal/handler/middleware"
	"restaurant-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: errs.Validation("bad"), want: http.StatusUnprocessableEntity},
		{name: "illegal state", err: errs.IllegalState("busy"), want: http.StatusConflict},
		{name: "state transition", err: errs.StateTransition("PENDING", "INVOICED"), want: http.StatusConflict},
		{name: "stock exhausted", err: errs.StockExhausted("out"), want: http.StatusConflict},
		{name: "reservation expired", err: errs.ReservationExpired("late"), want: http.StatusConflict},
		{name: "concurrent modification", err: errs.ConcurrentModification("stale"), want: http.StatusConflict},
		{name: "not found", err: errs.NotFound("gone"), want: http.StatusNotFound},
		{name: "timeout", err: errs.Timeout(context.DeadlineExceeded), want: http.StatusGatewayTimeout},
		{name: "wrapped kind survives", err: errs.Wrap(errs.NotFound("gone"), "load order"), want: http.StatusNotFound},
		{name: "unclassified", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, httperr.StatusFor(tt.err))
		})
	}
}

type body struct {
	Error struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"error"`
	Detail struct {
		Violations []errs.Violation `json:"violations"`
	} `json:"detail"`
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(h gin.HandlerFunc) *httptest.ResponseRecorder {
		r := gin.New()
		r.Use(middleware.CustomRecovery(), middleware.ErrorHandler())
		r.GET("/", h)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	t.Run("violations are reported under detail", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			httperr.Abort(c, errs.Validation("order validation failed",
				errs.Violation{Field: "items[0].quantity", Message: "must be between 1 and 99"},
				errs.Violation{Field: "staff_id", Message: "is required"},
			), "fallback")
		})

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var b body
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, "order validation failed", b.Error.Message)
		assert.Equal(t, "VALIDATION", b.Error.Kind)
		assert.Len(t, b.Detail.Violations, 2)
	})

	t.Run("unclassified errors use the fallback message", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			httperr.Abort(c, errors.New("connection reset"), "Failed to load order")
		})

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var b body
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, "Failed to load order", b.Error.Message)
		assert.Empty(t, b.Error.Kind)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("bare engine errors are mapped by kind", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			_ = c.Error(errs.StateTransition("PENDING", "INVOICED"))
		})

		require.Equal(t, http.StatusConflict, w.Code)
		var b body
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
		assert.Equal(t, "STATE_TRANSITION", b.Error.Kind)
	})

	t.Run("unknown attached errors become 500", func(t *testing.T) {
		w := serve(func(c *gin.Context) {
			_ = c.Error(errors.New("connection reset"))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})

	t.Run("panics become 500", func(t *testing.T) {
		w := serve(func(*gin.Context) { panic("boom") })
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Internal server error")
	})
}
