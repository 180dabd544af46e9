// Package card defines the card record and the error taxonomy shared by the
// registry, the capture session and the selection layer.
//
// A card associates a physical tag Identifier with a display name and an ARGB
// Color. The Identifier is fixed at creation; only name, color and texture are
// mutable, and only through the registry's update path.
//
// # Error Codes
//
//   - STORAGE_FAULT: the persistence layer failed
//   - NOT_FOUND: an update or selection referenced a missing id
//   - VALIDATION: empty name or identifier where one is required
//
// Use IsStorageFault, IsNotFound and IsValidation rather than comparing codes
// directly; they see through wrapping.
package card
