// Package render encodes layout results as terminal text, SVG or JSON.
package render

import (
	"fmt"
	"strings"

	"github.com/runoshun/timegrid/internal/domain"
)

// Format is an output encoding.
type Format string

// Formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
)

// ParseFormat parses text, json or svg (empty = text).
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFormat, s)
	}
}

// DefaultColor fills blocks of tasks without a color.
const DefaultColor = "#6C5CE7"

func taskColor(t *domain.Task) string {
	if t == nil || t.Color == "" {
		return DefaultColor
	}
	return t.Color
}

func taskTitle(t *domain.Task) string {
	if t == nil {
		return ""
	}
	return t.Title
}
