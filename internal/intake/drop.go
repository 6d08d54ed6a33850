package intake

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptyDrop is returned when a drop payload carries no path.
var ErrEmptyDrop = errors.New("drop payload contains no file path")

// ParseDrop extracts the first file path from a drag-and-drop payload.
// Terminals deliver a dropped file as pasted text, quoted or with escaped
// spaces depending on the emulator, or as a file:// URI.
func ParseDrop(payload string) (string, error) {
	fields := splitDropFields(strings.TrimSpace(payload))
	if len(fields) == 0 {
		return "", ErrEmptyDrop
	}

	path := fields[0]
	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return "", fmt.Errorf("invalid file URI %q: %w", path, err)
		}
		path = u.Path
	}

	if path == "" {
		return "", ErrEmptyDrop
	}
	return path, nil
}

func splitDropFields(s string) []string {
	var (
		fields  []string
		current strings.Builder
		quote   rune
		escaped bool
		started bool
	)

	flush := func() {
		if started {
			fields = append(fields, current.String())
		}
		current.Reset()
		started = false
	}

	for _, r := range s {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			started = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()

	return fields
}
