// Package observerdigest implements the observer digest service inside the
// observer-experience context.
//
// Draft events are fanned out to every observer following the draft or its
// studio. Each follower holds at most one refreshable entry per draft inside
// a trailing ten minute window, so bursts of review activity collapse into a
// single unseen notification.
package observerdigest
