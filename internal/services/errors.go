package services

import "errors"

// Sentinel errors for programmatic handling at the HTTP boundary. Callers
// use errors.Is to map these to status codes; anything else is a storage
// failure and surfaces as a generic 500.
var (
	ErrNotFound  = errors.New("journal does not exist")
	ErrForbidden = errors.New("requester does not own this journal")
)
