// Package observerengagement implements watchlist and engagement bookkeeping
// inside the observer-experience context.
//
// Observers follow drafts and studios, and save or rate drafts. Follow rows
// feed the digest service's follower resolution; the watchlist joins followed
// drafts with their cached arc summaries.
package observerengagement
