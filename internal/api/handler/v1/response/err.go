package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	ErrorMsg   string `json:"error"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func NewErr(statusCode int, err error) *Err {
	return &Err{
		StatusCode: statusCode,
		ErrorMsg:   err.Error(),
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err)
}

func ErrWrongCredentials(err error) *Err {
	return NewErr(http.StatusUnauthorized, err)
}

func ErrPermissionDenied(err error) *Err {
	return NewErr(http.StatusForbidden, err)
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return NewErr(http.StatusNotFound, fmt.Errorf("%v with %v %v is not found", resource, key, value))
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err)
}

func ErrInternalServerError(err error) *Err {
	return NewErr(http.StatusInternalServerError, err)
}

// RenderErr writes the error response. Internal errors keep their details in
// the log only; the client gets a generic message tied to the request ID.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("internal server error",
			zap.String("request_id", requestid.Get(ctx)),
			zap.Int("status_code", err.StatusCode),
			zap.String("error", err.ErrorMsg),
		)

		err.ErrorMsg = fmt.Sprintf("internal server error (request ID %v)", requestid.Get(ctx))
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
