// Package kernel provides core domain primitives for the marketplace fulfilment core.
// It implements fundamental building blocks following Domain-Driven Design principles
// that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Phone: A value object for phone numbers normalized to E.164 format
//   - Money: A value object for monetary amounts held in integer minor units (paise)
//   - GeoPoint: A value object for latitude/longitude coordinates used in handoff audit trails
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
package kernel
