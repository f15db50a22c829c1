package eveapi

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEnvelope is returned when a response has no <eveapi> root element
	ErrMissingEnvelope = errors.New("eveapi: response has no eveapi element")
	// ErrMissingResult is returned when a response envelope carries neither a result nor an error
	ErrMissingResult = errors.New("eveapi: response has no result element")
)

// Error codes the API uses for lookups of entities that do not exist
var notFoundCodes = map[int]bool{
	105: true, // Invalid characterID
	522: true, // Failed getting character information
	523: true, // Failed getting corporation information
}

// APIError is an <error code="..."> element returned by the EVE API
type APIError struct {
	Code       int
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eveapi: error %d: %s", e.Code, e.Message)
}

// NotFound reports whether the API rejected the call because the entity does not exist
func (e *APIError) NotFound() bool {
	return notFoundCodes[e.Code]
}

// StatusError is returned for non-200 responses that carry no API error element
type StatusError struct {
	StatusCode int
	Status     string
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("eveapi: %s returned status %d", e.Path, e.StatusCode)
}

// ValueError reports a value that is present but cannot be coerced
type ValueError struct {
	Name  string
	Value string
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("eveapi: invalid value %q for %s: %v", e.Value, e.Name, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}
