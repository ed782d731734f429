package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuth marks a missing, placeholder, or rejected metadata API credential.
	ErrAuth = errors.New("authentication error")
	// ErrNetwork marks transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrDecode marks malformed provider or manifest payloads.
	ErrDecode = errors.New("decode error")
	// ErrParse marks unparsable CSV input.
	ErrParse         = errors.New("parse error")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrNetwork
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatalToBatch reports whether a per-row failure must stop a bulk import.
// Only credential failures qualify; everything else degrades to "no match".
func IsFatalToBatch(err error) bool {
	return errors.Is(err, ErrAuth)
}

// UserMessage converts an interactive failure into a short message suitable
// for display.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuth):
		return "Missing or invalid TMDB API key. Set TMDB_API_KEY or tmdb.api_key in the config file."
	case errors.Is(err, ErrDecode):
		return "The movie database returned an unexpected response. Try again later."
	case errors.Is(err, ErrNetwork):
		return "Could not reach the movie database. Check your connection and try again."
	case errors.Is(err, ErrNotFound):
		return "The requested resource was not found."
	default:
		return err.Error()
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
