package api

import "fmt"

// Category classifies a remote failure by its status class.
type Category string

const (
	CategoryNotFound     Category = "not_found"
	CategoryUnauthorized Category = "unauthorized"
	CategoryForbidden    Category = "forbidden"
	CategoryOther        Category = "other"
)

// Error is a categorized remote failure. It carries enough detail for
// diagnostics; callers are expected to match on Category (or on the
// sentinel errors the lakefs package derives from it) rather than parse
// the reason text.
type Error struct {
	StatusCode int
	Category   Category
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote error (status %d, %s): %s", e.StatusCode, e.Category, e.Reason)
}

// CategoryForStatus maps an HTTP status code to its failure category.
func CategoryForStatus(code int) Category {
	switch code {
	case 404:
		return CategoryNotFound
	case 401:
		return CategoryUnauthorized
	case 403:
		return CategoryForbidden
	default:
		return CategoryOther
	}
}
