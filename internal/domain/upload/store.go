package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	MaxFileSize    = 10 * 1024 * 1024 // 10 MB
	DefaultBaseDir = "public/images"
	DefaultURLBase = "/images"

	maxStemLength   = 40
	maxExtLength    = 10
	maxNameAttempts = 100
)

// extensionsByMime lists the image types served inline, with their accepted extensions.
var extensionsByMime = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
	"image/bmp":  {".bmp"},
}

// Store keeps product images as flat files under one root directory.
// Names are "<unix-millis>_<sanitised original name>".
type Store struct {
	baseDir string
	urlBase string
	maxSize int64
}

func NewStore(baseDir, urlBase string, maxSize int64) *Store {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if urlBase == "" {
		urlBase = DefaultURLBase
	}
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &Store{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/"), maxSize: maxSize}
}

func (s *Store) BaseDir() string { return s.baseDir }

func (s *Store) MaxSize() int64 { return s.maxSize }

// Save writes img under a name derived from at and the original file name
// and returns that name. Any non-empty content within the size limit is
// accepted. Existing files are never overwritten: on a clash a numeric suffix
// is added before the extension.
func (s *Store) Save(ctx context.Context, img Image, at time.Time) (string, error) {
	if img.IsEmpty() {
		return "", ErrEmptyFile
	}
	if int64(len(img.Data)) > s.maxSize {
		return "", ErrFileTooLarge
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	base := StorageName(at, img.Filename, DetectMimeType(img.Data))
	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := withSuffix(base, attempt)
		absPath := filepath.Join(s.baseDir, name)

		f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create image file: %w", err)
		}

		if _, err := f.Write(img.Data); err != nil {
			_ = f.Close()
			_ = os.Remove(absPath)
			return "", fmt.Errorf("failed to write image file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(absPath)
			return "", fmt.Errorf("failed to close image file: %w", err)
		}
		return name, nil
	}

	return "", ErrNameExhausted
}

// Delete removes a stored image. A missing file is reported as ErrImageNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.baseDir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete image %q: %w", name, err)
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(s.baseDir, name))
	return err == nil && info.Mode().IsRegular()
}

func (s *Store) Path(name string) string {
	return filepath.Join(s.baseDir, name)
}

// URL returns the public path the image is served under.
func (s *Store) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.urlBase + "/" + name
}

// List returns regular files under the root, oldest first.
func (s *Store) List(ctx context.Context) ([]StoredImage, error) {
	entries, err := os.ReadDir(s.baseDir)
	if errors.Is(err, fs.ErrNotExist) {
		return []StoredImage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	images := make([]StoredImage, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, StoredImage{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}

	sort.Slice(images, func(i, j int) bool { return images[i].ModTime.Before(images[j].ModTime) })
	return images, nil
}

// StorageName builds "<unix-millis>_<safe name>" for an upload made at at.
func StorageName(at time.Time, original, mimeType string) string {
	return fmt.Sprintf("%d_%s", at.UnixMilli(), sanitizeName(original, mimeType))
}

// ValidateName rejects anything that is not a single plain file name.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}

// IsImageType reports whether mimeType is one of the image types served inline.
func IsImageType(mimeType string) bool {
	_, ok := extensionsByMime[mimeType]
	return ok
}

func DetectMimeType(data []byte) string {
	n := len(data)
	if n > 512 {
		n = 512
	}
	mimeType := http.DetectContentType(data[:n])
	return strings.Split(mimeType, ";")[0]
}

// sanitizeName keeps the base name with safe runes only. Image content always
// carries its own extension; other content keeps a plain original extension.
func sanitizeName(name, mimeType string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)

	ext := strings.ToLower(filepath.Ext(name))
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.Map(safeRune, stem)
	if len(stem) > maxStemLength {
		stem = stem[:maxStemLength]
	}
	if strings.Trim(stem, "_") == "" {
		stem = "image"
	}

	switch {
	case IsImageType(mimeType):
		if !extensionMatches(ext, mimeType) {
			ext = mimeToExt(mimeType)
		}
	case !plainExtension(ext):
		ext = mimeToExt(mimeType)
	}
	return stem + ext
}

func safeRune(r rune) rune {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
		return r
	}
	return '_'
}

// plainExtension accepts ".xyz" made of lower-case letters and digits.
func plainExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > maxExtLength || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func extensionMatches(ext, mimeType string) bool {
	for _, e := range extensionsByMime[mimeType] {
		if e == ext {
			return true
		}
	}
	return false
}

func mimeToExt(mime string) string {
	if exts := extensionsByMime[mime]; len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func withSuffix(name string, n int) string {
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), n, ext)
}
