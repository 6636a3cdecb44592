package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// uploadRoot is where resumes land when R2 is not configured. main serves
// it under /uploads.
const uploadRoot = "uploads"

// EnsureUploadDir creates the local upload root. Called at startup only
// when object storage is disabled.
func EnsureUploadDir() error {
	if err := os.MkdirAll(uploadRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}
	return nil
}

// SaveFile writes a multipart upload to destPath, creating intermediate
// directories (resume keys nest, e.g. "resumes/<user>.pdf").
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return nil
}

// GetUploadPath maps a storage key onto the local upload root.
func GetUploadPath(key string) string {
	return filepath.Join(uploadRoot, key)
}
