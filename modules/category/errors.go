package category

import "errors"

var (
	// ErrNotFound is returned when a category is not found.
	ErrNotFound = errors.New("category not found")
	// ErrNameRequired is returned when creating a category without a name.
	ErrNameRequired = errors.New("name is required")
)

// Wire codes carried in the "error" field of service replies.
const (
	CodeNotFound     = "category_not_found"
	CodeNameRequired = "name_required"
)

func errorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrNameRequired):
		return CodeNameRequired, true
	}
	return "", false
}

func errorFromCode(code string) error {
	switch code {
	case CodeNotFound:
		return ErrNotFound
	case CodeNameRequired:
		return ErrNameRequired
	}
	return nil
}
