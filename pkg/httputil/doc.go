// Package httputil provides HTTP utilities for the Flockview API server.
//
// # Overview
//
// This package provides infrastructure shared by all API handlers:
//
//   - [RequestID]: Middleware that tags every request with a unique id
//   - [RequestLogger]: Middleware that logs completed requests
//   - [JSON], [Error]: Response writers with a consistent envelope
//   - [DecodeJSON]: Size-limited request body decoding
//
// # Middleware
//
// Both middlewares are standard func(http.Handler) http.Handler wrappers
// and compose with any router:
//
//	r := chi.NewRouter()
//	r.Use(httputil.RequestID)
//	r.Use(httputil.RequestLogger(logger))
//
// The request id is taken from the X-Request-ID header when the caller
// supplies one, generated otherwise, echoed back in the response header,
// and exposed via [RequestIDFromContext] for log correlation.
//
// # Responses
//
// Handlers reply through [JSON] and [Error] so every response carries the
// same shape. Errors serialize as:
//
//	{"error": {"code": "INVALID_PARAMS", "message": "..."}}
//
// with the code taken from the errors package when the error carries one.
package httputil
