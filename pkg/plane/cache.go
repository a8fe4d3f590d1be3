package plane

// Cache holds the regions a solid has had computed, keyed by canonical
// plane key. Each solid owns exactly one cache; replacing the solid's
// geometry must invalidate it wholesale, since every cached region was
// derived from the old boundary.
type Cache struct {
	regions map[Key][]*Region
}

// NewCache returns an empty region cache.
func NewCache() *Cache {
	return &Cache{regions: make(map[Key][]*Region)}
}

// Regions returns the cached regions for a plane key.
func (c *Cache) Regions(key Key) ([]*Region, bool) {
	r, ok := c.regions[key]
	return r, ok
}

// Store replaces the cached regions for a plane key.
func (c *Cache) Store(key Key, regions []*Region) {
	c.regions[key] = regions
}

// Invalidate clears the entire cache.
func (c *Cache) Invalidate() {
	c.regions = make(map[Key][]*Region)
}

// Len returns the number of cached plane keys.
func (c *Cache) Len() int {
	return len(c.regions)
}
