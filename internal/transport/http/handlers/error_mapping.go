package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// respondWithMappedError resolves the provided error against known cases or
// falls back to a generic response. Outside release mode the fallback carries
// the underlying error so operators can see what actually failed; production
// responses stay opaque.
func respondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			respondFailure(c, cs.Status, cs.Message)
			return
		}
	}

	message := fallbackMessage
	if gin.Mode() != gin.ReleaseMode {
		message = fmt.Sprintf("%s: %v", fallbackMessage, err)
	}
	respondFailure(c, fallbackStatus, message)
}
