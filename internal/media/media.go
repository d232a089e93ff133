// Package media stores uploaded portfolio images on local disk.
package media

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/garnizeh/ustabul/pkg/models"
)

// Stored describes a file written by LocalStore.
type Stored struct {
	Name string
	URL  string
	Hash string
}

type LocalStore struct {
	dir       string
	urlPrefix string
}

// NewLocalStore writes files under dir and exposes them below urlPrefix,
// e.g. "/uploads". The directory is created if missing.
func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save validates that data is an image and writes it under a random name
// whose extension follows the detected image type. The client's filename is
// ignored. It does not check for duplicates.
func (s *LocalStore) Save(contentType string, data []byte) (*Stored, error) {
	ext, ok := ImageExtension(contentType, data)
	if !ok {
		return nil, models.ErrUnsupportedMediaType
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	return &Stored{
		Name: name,
		URL:  path.Join(s.urlPrefix, name),
		Hash: Hash(data),
	}, nil
}

// Remove deletes a file previously returned by Save.
func (s *LocalStore) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid media name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Hash is the hex SHA-256 of the file content.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// imageTypes maps the sniffed image types that may be served back to the
// extension they are stored under.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension sniffs data and returns the stored extension for it. The
// content must be one of imageTypes; a declared type other than
// application/octet-stream must also be an image type.
func ImageExtension(contentType string, data []byte) (string, bool) {
	if contentType != "" && contentType != "application/octet-stream" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err != nil || !strings.HasPrefix(mediaType, "image/") {
			return "", false
		}
	}
	ext, ok := imageTypes[http.DetectContentType(data)]
	return ext, ok
}
