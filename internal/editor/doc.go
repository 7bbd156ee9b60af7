// Package editor holds the editor shell state: the document source, the
// view mode, the document name and the busy flag of an in-flight
// enhancement.
//
// State transitions are pure functions from a State and an input to the
// next State. Session adds a lock around one State and enforces that at
// most one enhancement runs at a time.
package editor
