package tmpl

import (
	"maps"
	"slices"
)

// Context maps placeholder names to values for one render.
type Context map[string]string

func (c Context) Clone() Context {
	out := make(Context, len(c))
	maps.Copy(out, c)
	return out
}

// Merge returns a new context holding c overlaid with every other context
// in order, later entries win.
func (c Context) Merge(others ...Context) Context {
	out := c.Clone()
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}

// Keys returns the context keys sorted.
func (c Context) Keys() []string {
	return slices.Sorted(maps.Keys(c))
}
