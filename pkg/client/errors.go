package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of request failures.
// Classes feed logs and metrics only; no class is retried.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that could not be decoded.
	ErrorClassDecode ErrorClass = "decode"
)

// ErrEmptyID is returned when a detail lookup is given an empty identifier.
var ErrEmptyID = errors.New("empty id")

// APIError represents a failed PokeAPI request with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	URL        string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("pokeapi %s error: %s: %v", e.ErrorClass, e.URL, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("pokeapi %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("pokeapi %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the API answered 404.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// classifyStatus categorizes a non-2xx status code.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		// 1xx/3xx leaking through the transport are treated like server faults.
		return ErrorClassServer
	}
}
