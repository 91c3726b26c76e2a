// Package validation guards the inputs of the loader and the index:
// paths, document names and raw text.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Limits on untrusted input (CWE-400).
const (
	// MaxFileSize is the maximum decompressed text size (512 MB).
	MaxFileSize = 512 << 20
	// MaxNameLength is the maximum document name length.
	MaxNameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
	// sniffLength bounds how much of a text LooksBinary inspects.
	sniffLength = 8 << 10
)

// Common validation errors.
var (
	ErrInvalidName      = errors.New("invalid name")
	ErrPathTooLong      = errors.New("path too long")
	ErrNameTooLong      = errors.New("name too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrTooLarge         = errors.New("input exceeds size limit")
	ErrBinary           = errors.New("input looks like binary data")
)

// ValidatePath checks a local path for length limits and control characters.
func ValidatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if len(path) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateName checks a document name before it is stored.
// Names are single path elements such as "0255Jahiz.Hayawan.Shamela0001-ara1".
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidName)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidName)
		}
	}
	return nil
}

// LooksBinary reports whether the start of data looks like binary content
// rather than text: it contains a null byte, or more than 5% of its bytes
// are control characters other than tab, newline, carriage return and
// form feed.
func LooksBinary(data []byte) bool {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	if len(data) == 0 {
		return false
	}
	if bytes.IndexByte(data, 0) != -1 {
		return true
	}

	control := 0
	for _, b := range data {
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			control++
		}
	}
	return float64(control)/float64(len(data)) > 0.05
}
