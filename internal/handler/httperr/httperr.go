package httperr

import (
	"net/http"

	"restaurant-engine/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	if kind := errs.KindOf(err); kind != "" {
		resp.Error.Kind = string(kind)
	}
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps a structured engine error to its HTTP status. Errors without a
// kind are reported as 500 with the fallback message.
func Abort(c *gin.Context, err error, fallback string) {
	status := StatusFor(err)
	msg := fallback
	var detail any
	if e, ok := errs.AsError(err); ok {
		msg = e.Message
		if len(e.Violations) > 0 {
			detail = gin.H{"violations": e.Violations}
		}
	}
	AbortWithError(c, status, err, msg, detail)
}

func StatusFor(err error) int {
	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusUnprocessableEntity
	case errs.KindIllegalState, errs.KindStateTransition, errs.KindConcurrentModification,
		errs.KindStockExhausted, errs.KindReservationExpired:
		return http.StatusConflict
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
