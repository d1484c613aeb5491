package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Application codes carried in Envelope.Code.
const (
	CodeOK          = 0
	CodeBadRequest  = 40000
	CodeNotFound    = 40400
	CodeTooLarge    = 41300
	CodeInternal    = 50000
	internalMessage = "internal error"
)

func ok(data any) Envelope {
	return Envelope{Code: CodeOK, Message: "success", Data: data}
}

// failure builds the status and envelope for err. Internal errors hide
// their text from clients.
func failure(err error) (int, Envelope) {
	status := Status(err)
	if status == http.StatusBadRequest {
		return status, Envelope{Code: CodeBadRequest, Message: err.Error()}
	}
	return status, Envelope{Code: CodeInternal, Message: internalMessage}
}

func respond(c *gin.Context, data any, err error) {
	if err != nil {
		status, env := failure(err)
		c.Error(err)
		c.JSON(status, env)
		return
	}
	c.JSON(http.StatusOK, ok(data))
}
