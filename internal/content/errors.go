package content

import "errors"

// Sentinel errors for content discovery and loading.
var (
	// ErrContentDirWalkFailed indicates traversal of the pages directory failed.
	ErrContentDirWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered content file failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrInvalidRelativePath indicates a file could not be placed relative to the content root.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
