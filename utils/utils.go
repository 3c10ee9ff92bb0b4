package utils

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jetmil/dreamcapture/apperrors"
)

// SendJSONError sends a standardized JSON error response and logs the internal error.
// For 5xx errors, it sends a generic public message while logging the actual internalError.
// For 4xx errors, the publicMsg is shown to the client, and internalError (if provided) is logged.
func SendJSONError(c *gin.Context, statusCode int, publicMsg string, internalError error) {
	response := gin.H{"error": publicMsg}

	if internalError != nil {
		log.Printf("ERROR: Handler error: status_code=%d, public_message='%s', internal_error='%v', path='%s'",
			statusCode, publicMsg, internalError, c.Request.URL.Path)
	} else {
		log.Printf("INFO: Handler response: status_code=%d, public_message='%s', path='%s'",
			statusCode, publicMsg, c.Request.URL.Path)
	}

	if statusCode >= http.StatusInternalServerError {
		response["error"] = "An unexpected error occurred. Please try again later."
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// SendAppError maps an application error to its HTTP response. Classified
// errors keep their status and message (plus the quota limit or flagged
// categories when present); anything unclassified becomes a generic 500.
func SendAppError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	// Internal kinds must never reach a client; their callers are expected
	// to have degraded already. Reaching here is a propagation bug.
	if appErr.Type == apperrors.ErrorTypeEnrichmentUnavailable || appErr.Type == apperrors.ErrorTypeUpstreamFailure {
		SendJSONError(c, http.StatusInternalServerError, "", err)
		return
	}

	response := gin.H{"error": appErr.Message}
	if appErr.Limit > 0 {
		response["limit"] = appErr.Limit
	}
	if len(appErr.Categories) > 0 {
		response["categories"] = appErr.Categories
	}

	log.Printf("INFO: Handler response: status_code=%d, type=%s, public_message='%s', path='%s'",
		appErr.HTTPStatus, appErr.Type, appErr.Message, c.Request.URL.Path)

	c.AbortWithStatusJSON(appErr.HTTPStatus, response)
}
