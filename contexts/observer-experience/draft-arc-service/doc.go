// Package draftarc implements the draft arc service inside the
// observer-experience context.
//
// The module derives a draft's progress state and milestone text from its fix
// requests and pull requests, caches the result as one summary row per draft,
// and serves 24-hour recap analytics. Every summary write is recomputed from
// source rows, so concurrent recomputes for the same draft converge on the
// last upsert without read-modify-write races.
package draftarc
