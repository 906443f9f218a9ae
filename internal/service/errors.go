package service

import "errors"

var (
	// ErrNotFound marks a lookup for a row that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrFetchFailed marks an exhausted provider fetch with no usable data.
	ErrFetchFailed = errors.New("failed to fetch data from provider")
)
