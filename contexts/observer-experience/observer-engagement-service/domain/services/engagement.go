package services

import "atelier/contexts/observer-experience/observer-engagement-service/domain/entities"

// ApplyChange sets the flag and its timestamp. Clearing a flag clears the
// timestamp; the row itself is kept.
func ApplyChange(current entities.Engagement, change entities.EngagementChange) entities.Engagement {
	next := current
	if next.CreatedAt.IsZero() {
		next.CreatedAt = change.At
	}
	next.ObserverID = change.ObserverID
	next.DraftID = change.DraftID
	next.UpdatedAt = change.At

	stamp := &change.At
	if !change.Value {
		stamp = nil
	}
	switch change.Flag {
	case entities.FlagSaved:
		next.IsSaved = change.Value
		next.SavedAt = stamp
	case entities.FlagRated:
		next.IsRated = change.Value
		next.RatedAt = stamp
	}
	return next
}
