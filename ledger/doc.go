// Package ledger keeps each user's record of what they did with resources.
//
// Likes and dislikes follow toggle rules: at most one opinion per resource,
// sending the same opinion again undoes it and sending the opposite one
// replaces it. Clicks and ignores are appended as events.
//
// After every opinion toggle the feedback store is synced to the resulting
// opinion, or cleared after an undo. That write runs on a worker pool after
// Record returns; its failure is logged and counted in metrics but never
// changes the result of the toggle.
//
// The liked-tag set that personalizes rankings is derived on demand from the
// active likes and the tags cached for those resources.
package ledger
