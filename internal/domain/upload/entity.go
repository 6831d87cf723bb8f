package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"time"
)

// Image is an uploaded image held in memory between form binding and storage.
type Image struct {
	Filename string
	Data     []byte
}

func (i Image) IsEmpty() bool { return len(i.Data) == 0 }

// StoredImage describes a file under the image root.
type StoredImage struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// FromFileHeader reads a multipart file into an Image.
// A nil header yields an empty Image, which callers treat as "no image supplied".
func FromFileHeader(fh *multipart.FileHeader, maxSize int64) (Image, error) {
	if fh == nil {
		return Image{}, nil
	}
	if maxSize > 0 && fh.Size > maxSize {
		return Image{}, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var r io.Reader = file
	if maxSize > 0 {
		r = io.LimitReader(file, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, fmt.Errorf("failed to read file: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return Image{}, ErrFileTooLarge
	}

	return Image{Filename: fh.Filename, Data: data}, nil
}
