package availability

// Catalog is the allow-list of streaming provider names the user subscribes
// to. Matching is by exact TMDB display name; a provider rebrand upstream
// drops its matches until the configured list is updated.
type Catalog struct {
	names map[string]struct{}
	order []string
}

// NewCatalog creates a catalog from the configured provider names.
// Duplicates are collapsed, configuration order is preserved.
func NewCatalog(names []string) *Catalog {
	c := &Catalog{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, ok := c.names[name]; ok {
			continue
		}
		c.names[name] = struct{}{}
		c.order = append(c.order, name)
	}
	return c
}

// Contains reports whether the provider name is on the allow-list.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.names[name]
	return ok
}

// Names returns the allow-listed provider names in configuration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of allow-listed providers.
func (c *Catalog) Len() int {
	return len(c.order)
}
