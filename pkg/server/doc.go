// Package server exposes the wiring pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz                liveness probe with build information
//	GET  /pins                   the Pro Micro translation table as JSON
//	GET  /keyboards/{path...}    diagram of a keyboard from the QMK repository
//	POST /render                 diagram of the keyboard.json in the body
//
// The diagram endpoints accept the query parameters layout, format (text,
// json, dot, svg, pdf, png), translator (promicro, raw) and refresh.
//
// Failures are returned as JSON objects with the error code and message;
// the HTTP status is derived from the code. Every response carries an
// X-Request-ID header, taken from the request when present.
package server
