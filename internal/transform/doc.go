// Package transform is the catalog of named, pure value coercions that a
// mapping rule can apply to a resolved source value.
//
// The set of transforms is closed: [Kind] enumerates every catalog entry plus
// [Expression], which is evaluated by package expr rather than by [Apply].
// Failures are returned as *[Error] values wrapping [ErrTypeMismatch] or
// [ErrInvalidFormat]; no function in this package panics on bad data.
package transform
