package blobstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SanitizeName strips directory components and NUL bytes from an uploaded file name
// and normalises it to NFC so visually identical names map to one entry.
// Returns "unnamed" for empty or special directory references.
//
// Example:
//
//	blobstore.SanitizeName("../../../etc/passwd")    // "passwd"
//	blobstore.SanitizeName("C:\\Windows\\file.txt") // "file.txt"
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\x00", "")
	name = norm.NFC.String(strings.TrimSpace(name))

	if name == "." || name == ".." || name == "" || name == "/" {
		name = "unnamed"
	}

	return name
}

// ValidateName rejects names that would escape the store namespace.
// Stores accept only exact top-level names; no prefix or path matching.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}
