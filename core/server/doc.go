// Package server holds the admin HTTP server configuration.
//
// The Config struct defines the listen port, the request body limit and the
// read-only switch that hides every mutating catalog route.
package server
