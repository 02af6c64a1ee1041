package admin

import "github.com/purinorder/purinorder/internal/provider"

// Handler serves the back office API.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
