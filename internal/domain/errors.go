package domain

import "errors"

var (
	// ErrMalformedEvent indicates a webhook body that does not decode into
	// the event shape.
	ErrMalformedEvent = errors.New("malformed event payload")

	// ErrMissingType indicates an event without the required type field.
	ErrMissingType = errors.New("event is missing required field: type")

	// ErrMissingTenant indicates an event without the required tenant field.
	ErrMissingTenant = errors.New("event is missing required field: tenant")
)
