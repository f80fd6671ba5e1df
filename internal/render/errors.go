package render

import "errors"

var (
	// ErrNoRenderableItems means a session had no item that survived path
	// resolution and processing.
	ErrNoRenderableItems = errors.New("no renderable items")

	// ErrNoSessions means the catalog produced no sessions to render, or a
	// requested session code matched nothing.
	ErrNoSessions = errors.New("no sessions to render")
)
