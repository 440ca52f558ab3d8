package handler

import "errors"

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of the JSON API.
	APIPath = "/api"
)

// ErrNilDeps is returned by Init when app or a dependency is missing.
var ErrNilDeps = errors.New("app or handler dependencies are nil")

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error string `json:"error"`
}
