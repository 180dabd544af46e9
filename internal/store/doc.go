// Package store provides SQLite-backed durable storage for card records.
//
// The registry is a single table:
//
//	cards(id INTEGER PRIMARY KEY AUTOINCREMENT, identifier BLOB NOT NULL,
//	      name TEXT, color INTEGER, texture BLOB)
//
// # Guarantees
//
//   - Every operation is one SQL statement, so nothing partially applies.
//   - AUTOINCREMENT means an id is never handed out twice for the same file,
//     even after the record holding it is deleted.
//   - identifier is written once by Insert and never by Update.
//   - Failures from the driver are returned as card.Error with code
//     STORAGE_FAULT; a missing id on Update or Get is NOT_FOUND.
//
// Name validation is deliberately left to callers: Insert only rejects an
// empty identifier and Update accepts any name. The capture session and the
// CLI each enforce non-empty names on their own paths.
//
// # Color Encoding
//
// color holds the ARGB value reinterpreted as a signed 32-bit integer, which
// is how the layout's original writers stored it. Values round-trip exactly.
//
// # Database Configuration
//
//   - WAL mode: reads proceed during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
package store
