// Package fileutil provides temporary file, staging and path helpers.
package fileutil

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Sentinel errors for name validation.
var (
	ErrEmptyName  = errors.New("name cannot be empty")
	ErrUnsafeName = errors.New("name contains a path separator, null byte or dot segment")
)

// tempPrefix prefixes every temporary file and directory created by reportgen.
const tempPrefix = "reportgen-"

// ValidateName checks that s can be embedded in a temp file or directory
// name without leaving the temp dir. Extensions and request ids use it.
func ValidateName(s string) error {
	switch {
	case s == "":
		return ErrEmptyName
	case s == "." || s == "..", strings.ContainsAny(s, "/\\\x00"):
		return ErrUnsafeName
	}
	return nil
}

// WriteTempFile stores data in a new temp file ending in .extension.
// cleanup removes the file and is safe to call more than once.
func WriteTempFile(data []byte, extension string) (path string, cleanup func(), err error) {
	if err := ValidateName(extension); err != nil {
		return "", nil, fmt.Errorf("extension %q: %w", extension, err)
	}

	f, err := os.CreateTemp("", tempPrefix+"*."+extension)
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}
	return path, cleanup, nil
}

// FileExists reports whether path exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsFilePath reports whether s looks like a path rather than a bare name.
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL reports whether s is an absolute http or https URL with a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
