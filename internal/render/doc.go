// Package render orchestrates the processing pipeline: it resolves catalog
// items to media files, re-encodes each clip with normalized loudness and a
// burned-in title, and concatenates every session into a single chaptered
// output file.
//
// Idempotence is mtime-based. A processed clip is reused when it is newer
// than its source, and a session output is reused when it is newer than every
// processed clip feeding it.
package render
