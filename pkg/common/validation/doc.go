// Package validation provides common validation utilities for configuration
// parameters across the conduit library.
//
// Constructors such as channel.NewSafe and workerpool.NewSafe use these
// helpers so that every invalid argument is reported as an
// *errors.ValidationError wrapping errors.ErrInvalidConfiguration.
package validation
