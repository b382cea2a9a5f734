// Package errs provides standardized error types for the marketplace fulfilment core.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an object cannot be found
//   - BusinessError: For semantic business failures with stable machine codes
//
// Each validation error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// BusinessError additionally carries a stable machine-readable code (see the
// Code* constants) and, for money-movement failures, a Retryable flag that
// tells operational tooling whether an automatic retry is safe.
package errs
