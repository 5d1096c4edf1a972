package filemgr

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	productDir  = "uploads/products"
	categoryDir = "uploads/categories"
	thumbWidth  = 400
	maxFileSize = 10 << 20
)

var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// SaveProductImage stores an uploaded product image plus a resized
// thumbnail, returning the public path of the original.
func SaveProductImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	return saveImage(file, header, productDir, true)
}

// SaveCategoryIcon stores a category icon; icons are small, no thumbnail.
func SaveCategoryIcon(file multipart.File, header *multipart.FileHeader) (string, error) {
	return saveImage(file, header, categoryDir, false)
}

func saveImage(file multipart.File, header *multipart.FileHeader, dir string, withThumb bool) (string, error) {
	defer file.Close()

	if header.Size > maxFileSize {
		return "", fmt.Errorf("file %q exceeds the 10MB limit", header.Filename)
	}
	if mime := header.Header.Get("Content-Type"); !supportedImageTypes[mime] {
		return "", fmt.Errorf("unsupported image type %q", mime)
	}

	buf, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	img, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %q: %w", header.Filename, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}

	name := uuid.NewString() + extFor(format, header.Filename)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	if withThumb {
		thumbDir := filepath.Join(dir, "thumbs")
		if err := os.MkdirAll(thumbDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
		}
		thumb := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
		if err := imaging.Save(thumb, filepath.Join(thumbDir, name)); err != nil {
			return "", fmt.Errorf("failed to save thumbnail: %w", err)
		}
	}

	return "/" + filepath.ToSlash(path), nil
}

func extFor(format, filename string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "png", "gif":
		return "." + format
	}
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" {
		return ext
	}
	return ".img"
}
