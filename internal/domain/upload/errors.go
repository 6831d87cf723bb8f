package upload

import "errors"

var (
	ErrEmptyFile     = errors.New("file is empty")
	ErrFileTooLarge  = errors.New("file exceeds maximum allowed size")
	ErrInvalidName   = errors.New("invalid image file name")
	ErrImageNotFound = errors.New("image not found")
	ErrNameExhausted = errors.New("no free storage name for image")
)
