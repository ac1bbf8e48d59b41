package display

import "errors"

// Partition creation is the only recoverable failure surface: the caller
// can retry with a different area.
var (
	// ErrTooNarrow means the requested area is narrower than 8 pixels
	ErrTooNarrow = errors.New("display: partition narrower than 8 pixels")
	// ErrBadWidth means the requested width is not a multiple of 8,
	// breaking byte-packed element layouts
	ErrBadWidth = errors.New("display: partition width not a multiple of 8")
	// ErrOutsideParent means the requested area leaves the parent screen
	ErrOutsideParent = errors.New("display: partition area outside parent screen")
	// ErrOverlaps means the requested area overlaps a live partition
	ErrOverlaps = errors.New("display: partition area overlaps an existing partition")
	// ErrTooManyPartitions means the configured partition limit is reached
	ErrTooManyPartitions = errors.New("display: partition limit reached")
)
