// Package history persists one record per session render attempt in a SQLite
// database under the log directory. The status command reads it; rendering
// only ever appends, and write failures are reported as warnings so a broken
// database never blocks a render.
package history
