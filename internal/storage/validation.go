package storage

import (
	"fmt"
	"strings"
)

// AllowedImageContentTypes defines the MIME types accepted for logos and avatars.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedDocumentContentTypes defines the MIME types accepted for resumes.
var AllowedDocumentContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
}

// ValidateImageContentType checks that the content type is an allowed image format.
func (s *MinIOService) ValidateImageContentType(contentType string) error {
	if !AllowedImageContentTypes[normalizeContentType(contentType)] {
		return fmt.Errorf("content type %q is not an allowed image format", contentType)
	}
	return nil
}

// ValidateDocumentContentType checks that the content type is an allowed resume format.
func (s *MinIOService) ValidateDocumentContentType(contentType string) error {
	if !AllowedDocumentContentTypes[normalizeContentType(contentType)] {
		return fmt.Errorf("content type %q is not an allowed document format", contentType)
	}
	return nil
}

// ValidateFileSize checks if the file size is within limits.
func (s *MinIOService) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}

// normalizeContentType drops parameters like charset before the lookup.
func normalizeContentType(contentType string) string {
	normalized := strings.Split(contentType, ";")[0]
	return strings.TrimSpace(strings.ToLower(normalized))
}
