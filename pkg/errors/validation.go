package errors

import (
	"math"
	"strings"
	"unicode"
)

// CheckFinite rejects NaN and infinite values for the named parameter.
func CheckFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParameter, "%s must be finite, got %v", name, v)
	}
	return nil
}

// CheckRange validates lo <= v <= hi for a real-valued parameter.
func CheckRange(name string, v, lo, hi float64) error {
	if err := CheckFinite(name, v); err != nil {
		return err
	}
	if v < lo || v > hi {
		return New(ErrCodeInvalidParameter, "%s must be in [%g, %g], got %g", name, lo, hi, v)
	}
	return nil
}

// CheckIntRange validates lo <= v <= hi for an integer parameter.
func CheckIntRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidParameter, "%s must be in [%d, %d], got %d", name, lo, hi, v)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateObjectName validates a scene object name. Names appear in SVG titles
// and HTTP responses, so they are kept short and printable.
func ValidateObjectName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidParameter, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidParameter, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidParameter, "name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "<>&") {
		return New(ErrCodeInvalidParameter, "name contains markup characters: %q", name)
	}
	return nil
}
