package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// genericErrorMsg is the client-safe message for unexpected failures; the
// real cause goes to the server log.
const genericErrorMsg = "Something went wrong. Please try again."

// apiError writes the uniform JSON error envelope the SPA expects.
func apiError(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]string{"error": message})
}

// apiFieldErrors reports per-field validation failures alongside the uniform
// error message.
func apiFieldErrors(e *core.RequestEvent, fields map[string]string) error {
	return e.JSON(http.StatusBadRequest, map[string]any{
		"error":  "Validation failed",
		"fields": fields,
	})
}
