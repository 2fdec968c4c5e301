package config

import (
	"fmt"
	"strings"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NormalizeFormat maps a case-insensitive output format name, or one of
// its aliases, to its canonical form. An empty name means FormatText.
func NormalizeFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	if format == "" {
		format = FormatText
	}
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return format, nil
	case "txt":
		return FormatText, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf(
			"invalid output format %q (expected %s|%s|%s)",
			raw,
			FormatText,
			FormatJSON,
			FormatYAML,
		)
	}
}
