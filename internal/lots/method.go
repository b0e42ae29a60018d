package lots

import (
	"fmt"
	"strings"
)

// Method selects which acquisition a disposal is matched against.
type Method string

const (
	FIFO Method = "fifo"
	LIFO Method = "lifo"
)

// ParseMethod parses "fifo" or "lifo"; an empty string means FIFO.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return FIFO, nil
	case FIFO, LIFO:
		return m, nil
	default:
		return "", fmt.Errorf("unknown matching method %q", s)
	}
}
