package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/signup-site/internal/registration"
	"github.com/nekogravitycat/signup-site/internal/validation"
)

// PhotoUploadConfig defines how the photo part of a form post is read
type PhotoUploadConfig struct {
	FormFieldName string // The name of the form field containing the file (default: "photo")
	MaxSizeBytes  int64  // Bytes kept beyond this are dropped; one extra byte is read so oversize is still detected
}

// DefaultPhotoUpload reads the "photo" field bounded by the photo size rule.
var DefaultPhotoUpload = PhotoUploadConfig{
	FormFieldName: string(validation.FieldPhoto),
	MaxSizeBytes:  validation.MaxPhotoSize,
}

// ReadPhoto returns the uploaded photo, or nil when the post carries none.
//
// The data is truncated at MaxSizeBytes+1. Only the length matters for an
// oversized photo since it is rejected by validation and never sent.
func ReadPhoto(c *gin.Context, config PhotoUploadConfig) (*registration.Photo, error) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = string(validation.FieldPhoto)
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", fieldName, err)
	}
	if fileHeader.Filename == "" && fileHeader.Size == 0 {
		return nil, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fieldName, err)
	}
	defer src.Close()

	var r io.Reader = src
	if config.MaxSizeBytes > 0 {
		r = io.LimitReader(src, config.MaxSizeBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fieldName, err)
	}

	return &registration.Photo{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
