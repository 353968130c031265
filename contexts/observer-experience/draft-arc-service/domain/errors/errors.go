package errors

import "atelier/contracts/failure"

var (
	ErrDraftNotFound = failure.New(failure.KindNotFound, "DRAFT_NOT_FOUND", "draft not found")
	ErrInvalidDraft  = failure.New(failure.KindInvalidInput, "DRAFT_ID_INVALID", "draft id is required")
)
