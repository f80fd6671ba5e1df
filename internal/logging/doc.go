// Package logging wires log/slog with the repository's console and JSON
// handlers. The console handler emits one timestamped line per record with
// key=value attributes, folding the component attribute into the message
// prefix. Attr helpers keep call sites terse and field names consistent.
package logging
