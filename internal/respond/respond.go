package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contentType = "application/json"

// Result pairs a payload with the status code it should be delivered with.
type Result struct {
	Value  any
	Status int
}

func OK(value any) Result {
	return Result{Value: value, Status: http.StatusOK}
}

func New(value any, status int) Result {
	return Result{Value: value, Status: status}
}

// Render writes the result as a JSON body. If the value cannot be
// marshalled, the body falls back to its Go-syntax representation; the
// content type stays application/json either way, so callers never see
// a serialization error.
func (r Result) Render(c *gin.Context) {
	body, err := json.Marshal(r.Value)
	if err != nil {
		body = []byte(fmt.Sprintf("%#v", r.Value))
	}
	c.Data(r.Status, contentType, body)
}

type errorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error is a failure message that renders like a Result and also
// satisfies the error interface, so handlers can return it or panic
// with it and let Recovery turn it into a response.
type Error struct {
	Message string
	Status  int
}

func NewError(message string) *Error {
	return &Error{Message: message, Status: http.StatusBadRequest}
}

func NewErrorWithStatus(message string, status int) *Error {
	return &Error{Message: message, Status: status}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Render(c *gin.Context) {
	Result{
		Value:  errorPayload{Success: false, Message: e.Message},
		Status: e.Status,
	}.Render(c)
}

// Recovery renders a panicked *Error as its response. Anything else
// keeps propagating.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if v := recover(); v != nil {
				apiErr, ok := v.(*Error)
				if !ok {
					panic(v)
				}
				apiErr.Render(c)
				c.Abort()
			}
		}()
		c.Next()
	}
}
