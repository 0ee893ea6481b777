package imagesource

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/soochol/viscribe/internal/apperrors"
)

// Image is a resolved source, ready for dispatch. Exactly one field is set.
type Image struct {
	URL    string
	Base64 string
}

// Resolve converts a local path into inline base64 content. URL and
// base64 sources pass through untouched.
func Resolve(src Source) (Image, error) {
	if src.Path == "" {
		return Image{URL: src.URL, Base64: src.Base64}, nil
	}
	data, err := LoadPathBase64(src.Path)
	if err != nil {
		return Image{}, err
	}
	return Image{Base64: data}, nil
}

// LoadPathBase64 reads a local image file and returns its standard
// base64 encoding. Relative paths are resolved against the working
// directory.
func LoadPathBase64(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("invalid image path: %s", path), err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperrors.NewNotFoundError(fmt.Sprintf("image file not found: %s", abs), err)
		}
		return "", apperrors.NewInternalError(fmt.Sprintf("stat image file: %s", abs), err)
	}
	if !info.Mode().IsRegular() {
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("path is not a file: %s", abs), nil)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Sprintf("read image file: %s", abs), err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
