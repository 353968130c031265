package errors

import "atelier/contracts/failure"

var (
	ErrInvalidObserver = failure.New(failure.KindInvalidInput, "OBSERVER_ID_INVALID", "observer id is required")
	ErrInvalidDraft    = failure.New(failure.KindInvalidInput, "DRAFT_ID_INVALID", "draft id is required")
	ErrInvalidStudio   = failure.New(failure.KindInvalidInput, "STUDIO_ID_INVALID", "studio id is required")
	ErrDraftNotFound   = failure.New(failure.KindNotFound, "DRAFT_NOT_FOUND", "draft not found")
)
