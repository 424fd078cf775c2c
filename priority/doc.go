// Package priority orders a user's tasks.
//
// A deterministic baseline ranks tasks by category weight and due date. When
// a text generator is configured it is asked for an order as well, and that
// override is accepted only if it is an exact permutation of the input ids.
// Anything else, including a failed or unparseable call, yields the baseline.
package priority
