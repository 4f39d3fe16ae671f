package engine

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/filter"
)

var (
	// ErrNoImageLoaded is returned by operations that need pixels before LoadImage succeeded.
	ErrNoImageLoaded = errors.New("engine: no image loaded")
	// ErrFilterLocked is returned by ApplyGlobalFilter once a region edit has been made.
	ErrFilterLocked = filter.ErrLocked
)
