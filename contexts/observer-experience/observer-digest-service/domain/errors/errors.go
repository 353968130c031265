package errors

import "atelier/contracts/failure"

var (
	ErrDigestEntryNotFound = failure.New(failure.KindNotFound, "DIGEST_ENTRY_NOT_FOUND", "digest entry not found")
	ErrInvalidEvent        = failure.New(failure.KindInvalidInput, "DIGEST_EVENT_INVALID", "draft id and event type are required")
	ErrInvalidPreferences  = failure.New(failure.KindInvalidInput, "DIGEST_PREFERENCES_INVALID", "at least one digest preference is required")
	ErrInvalidObserver     = failure.New(failure.KindInvalidInput, "OBSERVER_ID_INVALID", "observer id is required")
	ErrDraftNotFound       = failure.New(failure.KindNotFound, "DRAFT_NOT_FOUND", "draft not found")
)
