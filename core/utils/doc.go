// Package utils provides small parsing helpers shared by the CLI and the HTTP handlers.
package utils
