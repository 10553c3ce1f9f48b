package event

import "errors"

var (
	// ErrNotFound is returned when an event is not found.
	ErrNotFound = errors.New("event not found")
	// ErrTitleRequired is returned when an event has no title.
	ErrTitleRequired = errors.New("title is required")
	// ErrUnknownCategory is returned when category_id names no category.
	ErrUnknownCategory = errors.New("unknown category")
)

// Wire codes carried in the "error" field of service replies.
const (
	CodeNotFound        = "event_not_found"
	CodeTitleRequired   = "title_required"
	CodeUnknownCategory = "unknown_category"
)

var codes = map[string]error{
	CodeNotFound:        ErrNotFound,
	CodeTitleRequired:   ErrTitleRequired,
	CodeUnknownCategory: ErrUnknownCategory,
}

func errorCode(err error) (string, bool) {
	for code, target := range codes {
		if errors.Is(err, target) {
			return code, true
		}
	}
	return "", false
}
