package models

import (
	"fmt"
	"strings"
)

// Category is the tour a remote prediction is requested for
type Category string

const (
	CategoryATP Category = "ATP"
	CategoryWTA Category = "WTA"
)

// ParseCategory normalises and validates a tour category
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryATP, CategoryWTA:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
	}
}
