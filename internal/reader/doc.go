// Package reader provides identifier sources for capture sessions.
//
// The tag hardware protocol lives outside this module. A Feed bridges a
// driver callback into a session, and Lines reads hex identifiers from a
// stream such as stdin or the output of a reader utility.
//
// Both sources deliver only while listening. Identifiers that arrive while
// not listening are dropped, never queued.
package reader
