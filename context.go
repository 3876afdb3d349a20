package kmlstream

// pathElement is one entry of the open-element context path: the
// element's local name and the attributes it was opened with.
type pathElement struct {
	name  string
	attrs map[string]string
}

// context tracks the currently open element path as two parallel
// stacks: path (name + attrs, for attribute lookups) and names (name
// only, for suffix matching). Both grow at the tail; the current
// element is always the last entry.
type context struct {
	path  []pathElement
	names []string
}

func (c *context) push(name string, attrs map[string]string) {
	c.path = append(c.path, pathElement{name: name, attrs: attrs})
	c.names = append(c.names, name)
}

func (c *context) pop() {
	if len(c.path) == 0 {
		return
	}
	c.path = c.path[:len(c.path)-1]
	c.names = c.names[:len(c.names)-1]
}

// reset discards the entire path. Called when a Placemark element
// opens, since each placemark's interior path is independent of
// whatever Document/Folder ancestry surrounds it.
func (c *context) reset() {
	c.path = c.path[:0]
	c.names = c.names[:0]
}

// currentAttrs returns the attributes of the innermost open element, or
// nil if the path is empty.
func (c *context) currentAttrs() map[string]string {
	if len(c.path) == 0 {
		return nil
	}
	return c.path[len(c.path)-1].attrs
}

// parentAttrs returns the attributes of the element one level above the
// innermost, or nil if there is no such ancestor.
func (c *context) parentAttrs() map[string]string {
	if len(c.path) < 2 {
		return nil
	}
	return c.path[len(c.path)-2].attrs
}

// matchSuffix reports whether the current element path ends with the
// given sequence of names, read outermost-to-innermost (the same order
// the pattern is written in, e.g. []string{"Polygon", "outerBoundaryIs",
// "LinearRing", "coordinates"}).
func (c *context) matchSuffix(pattern []string) bool {
	if len(pattern) > len(c.names) {
		return false
	}
	offset := len(c.names) - len(pattern)
	for i, name := range pattern {
		if c.names[offset+i] != name {
			return false
		}
	}
	return true
}
