package services

import "errors"

var (
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUserCancelled     = errors.New("cancelled by user")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFontLoad          = errors.New("font failed to load")
	ErrCapture           = errors.New("canvas capture failed")
)
