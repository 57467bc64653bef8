package services

import "errors"

var (
	ErrCatalogNotLoaded = errors.New("metadata catalog has not been loaded")
	ErrQueryCapacity    = errors.New("too many concurrent queries")
)
