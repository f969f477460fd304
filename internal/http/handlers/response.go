// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all
// endpoints. Success bodies share one envelope and every error response
// carries the numeric status plus a human-readable message echoing the
// offending request URL, so clients see a uniform contract for all three
// user-visible failure kinds (400, 401, 415).
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{ "status": 400, "msg": "Bad Request: http://localhost:8080/messages" }
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{ "status": "OK", "msg": "Account successfully registered" }
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messaging-backend/internal/http/middleware"
)

// StatusResponse is the success envelope returned by all endpoints. Msg is
// either a confirmation string or an operation-specific payload.
type StatusResponse struct {
	Status string `json:"status" example:"OK"`
	Msg    any    `json:"msg"`
}

// ErrorResponse is the error envelope returned by all endpoints.
//
// Fields:
//   - Status: the numeric HTTP status, repeated in the body.
//   - Msg: "<status text>: <request URL>" for the failing request.
//   - RequestID: optional correlation ID echoed from X-Request-ID.
type ErrorResponse struct {
	Status    int    `json:"status" example:"400"`
	Msg       string `json:"msg" example:"Bad Request: http://localhost:8080/messages"`
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// fail aborts the request with the standard error envelope and logs
// server-side errors with the request-scoped logger.
func fail(c *gin.Context, status int) {
	resp := ErrorResponse{
		Status:    status,
		Msg:       http.StatusText(status) + ": " + requestURL(c),
		RequestID: c.Writer.Header().Get("X-Request-ID"),
	}

	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("url", requestURL(c)).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for use by router fallbacks.
func Fail(c *gin.Context, status int) { fail(c, status) }

// badRequest, unauthorized, and unsupportedMedia name the three
// user-visible error kinds.
func badRequest(c *gin.Context)       { fail(c, http.StatusBadRequest) }
func unauthorized(c *gin.Context)     { fail(c, http.StatusUnauthorized) }
func unsupportedMedia(c *gin.Context) { fail(c, http.StatusUnsupportedMediaType) }

// internalError hides the fault behind a uniform 500 envelope; the cause is
// logged, never sent to the caller.
func internalError(c *gin.Context, err error) {
	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Str("url", requestURL(c)).Msg("internal error")
	fail(c, http.StatusInternalServerError)
}

// ok writes a success envelope.
func ok(c *gin.Context, msg any) {
	c.JSON(http.StatusOK, StatusResponse{Status: "OK", Msg: msg})
}

// requestURL reconstructs the full URL of the request for error messages.
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

// bindStrictJSON decodes the request body into dst, rejecting unknown fields
// and trailing garbage. Payloads are validated at the boundary before any
// core logic runs.
func bindStrictJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// A second document in the body is as malformed as an unknown field.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}
