package services

import "github.com/go-faster/errors"

// Errors returned by ProductService. Match them with errors.Is; gateway
// failures are returned as they come and never match either of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
