// Package engine runs a client's ordered mapping rules against a document.
//
// For every rule the engine reads the source path, substitutes the default
// when the source is missing, applies the rule's transform and writes the
// result to the destination path of a fresh output document. Each rule yields
// exactly one Outcome; a failing rule never stops the rules after it and never
// writes anything.
//
// The input document is never modified and the output never shares maps or
// lists with it.
//
// An Engine holds only configuration and may be shared between goroutines.
package engine
