// Package predictionmarket implements the observer prediction market inside
// the observer-experience context.
//
// Observers stake points on whether a pending pull request will be merged or
// rejected. Stakes are bounded by a trust tier derived from resolved history
// and by per-day budgets counted on the UTC calendar day. Every submission
// lands through one upsert guarded by resolved_at IS NULL, which keeps
// resolved predictions immutable even when an edit races the resolution.
package predictionmarket
