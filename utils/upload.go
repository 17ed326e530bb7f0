package utils

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"time"

	"github.com/disintegration/imaging"
	"github.com/housefit/apartment-management-backend/config"
	"github.com/housefit/apartment-management-backend/internal/apperrors"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

var fieldPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,31}$`)

// folderForField maps an upload form field to its storage folder.
func folderForField(field string) string {
	switch field {
	case "tree":
		return "trees"
	case "flat":
		return "flats"
	case "profile":
		return "profiles"
	case "problem":
		return "problems"
	default:
		return "misc"
	}
}

// Uploader stores validated images below a root directory that is served
// under /uploads.
type Uploader struct {
	root    string
	maxSize int64
	maxDim  int
	now     func() time.Time
}

func NewUploader(cfg *config.Config) *Uploader {
	return &Uploader{
		root:    cfg.UploadDir,
		maxSize: cfg.MaxFileSize,
		maxDim:  cfg.UploadMaxDimension,
		now:     time.Now,
	}
}

// Save validates and stores one uploaded image and returns its public URL.
func (u *Uploader) Save(fh *multipart.FileHeader, field string, userID uint) (string, error) {
	if fh == nil {
		return "", apperrors.Validation("File is required")
	}
	if !fieldPattern.MatchString(field) {
		return "", apperrors.Validation("Invalid upload field")
	}
	if fh.Size > u.maxSize {
		return "", apperrors.Validation(fmt.Sprintf("File too large. Maximum size is %d bytes", u.maxSize))
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, u.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > u.maxSize {
		return "", apperrors.Validation(fmt.Sprintf("File too large. Maximum size is %d bytes", u.maxSize))
	}

	// The extension follows the sniffed content, not the client's filename.
	mimeType := http.DetectContentType(data)
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return "", apperrors.Validation("Invalid file type. Only JPEG, PNG and GIF images are allowed")
	}

	folder := folderForField(field)
	dir := filepath.Join(u.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%d%s", field, userID, u.now().UnixMilli(), ext)
	dst := filepath.Join(dir, name)

	if err := u.write(dst, data, mimeType); err != nil {
		return "", err
	}
	return path.Join("/uploads", folder, name), nil
}

// write stores data at dst, downscaling JPEG and PNG images whose longest
// side exceeds maxDim. GIFs are kept byte-for-byte to preserve animation.
func (u *Uploader) write(dst string, data []byte, mimeType string) error {
	if mimeType != "image/gif" && u.maxDim > 0 {
		img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		if err == nil {
			b := img.Bounds()
			if b.Dx() > u.maxDim || b.Dy() > u.maxDim {
				resized := imaging.Fit(img, u.maxDim, u.maxDim, imaging.Lanczos)
				format := imaging.JPEG
				if mimeType == "image/png" {
					format = imaging.PNG
				}
				return saveResized(dst, resized, format)
			}
		}
	}

	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	return nil
}

func saveResized(dst string, img image.Image, format imaging.Format) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to save upload: %w", cerr)
		}
	}()
	if err := imaging.Encode(f, img, format); err != nil {
		return fmt.Errorf("failed to encode upload: %w", err)
	}
	return nil
}
