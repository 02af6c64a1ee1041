package public

import "github.com/purinorder/purinorder/internal/provider"

// Handler serves the storefront API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
