package kmlstream

import "strings"

// textRule is one row of the text-handler table: a suffix pattern over
// the current element path and the action to run when it matches the
// path as it stands immediately after a start_element push. The table
// is scanned in order and the first matching rule wins. Rows are not
// sorted by length: the only patterns that can both match one path
// (Point/coordinates and MultiGeometry/Point/coordinates, and likewise
// for LineString) run the same action, so the first match has the same
// effect as the most specific one.
type textRule struct {
	pattern []string
	action  func(a *assembler, text string)
}

// textTable is a static linear scan rather than a trie: at this
// domain's scale (a dozen patterns) a trie's setup cost would not pay
// for itself.
var textTable = []textRule{
	{
		pattern: []string{"ExtendedData", "SchemaData", "SimpleData"},
		action: func(a *assembler, text string) {
			attrs := a.ctx.currentAttrs()
			if attrs == nil || a.placemark == nil {
				return
			}
			if name, ok := attrs["name"]; ok {
				a.placemark.putAttribute(name, strings.TrimSpace(text))
			}
		},
	},
	{
		pattern: []string{"ExtendedData", "Data", "value"},
		action: func(a *assembler, text string) {
			attrs := a.ctx.parentAttrs()
			if attrs == nil || a.placemark == nil {
				return
			}
			if name, ok := attrs["name"]; ok {
				a.placemark.putAttribute(name, strings.TrimSpace(text))
			}
		},
	},
	{
		pattern: []string{"Point", "coordinates"},
		action:  textHandlePoint,
	},
	{
		pattern: []string{"MultiGeometry", "Point", "coordinates"},
		action:  textHandlePoint,
	},
	{
		pattern: []string{"LineString", "coordinates"},
		action:  textHandleLine,
	},
	{
		pattern: []string{"MultiGeometry", "LineString", "coordinates"},
		action:  textHandleLine,
	},
	{
		pattern: []string{"outerBoundaryIs", "LinearRing", "coordinates"},
		action:  textHandleLine,
	},
	{
		pattern: []string{"innerBoundaryIs", "LinearRing", "coordinates"},
		action:  textHandleLine,
	},
	{
		pattern: []string{"name"},
		action: func(a *assembler, text string) {
			if a.placemark != nil {
				a.placemark.putAttribute("name", text)
			}
		},
	},
	{
		pattern: []string{"description"},
		action: func(a *assembler, text string) {
			if a.placemark != nil {
				a.placemark.putAttribute("description", text)
			}
		},
	},
	{
		pattern: []string{"TimeSpan", "begin"},
		action: func(a *assembler, text string) {
			if a.placemark != nil {
				a.placemark.putAttribute("timespan_begin", text)
			}
		},
	},
	{
		pattern: []string{"TimeSpan", "end"},
		action: func(a *assembler, text string) {
			if a.placemark != nil {
				a.placemark.putAttribute("timespan_end", text)
			}
		},
	},
}

// textHandlePoint parses the text as a single coordinate tuple and
// fills the current leaf's reserved stack slot (see onStart's Point
// case). A parse failure is swallowed here (per the coordinate-parse-
// error recovery policy in §7 of the spec this implements), after
// being routed through the assembler's optional warning hook — the
// slot is left nil, and its matching exit handler drops it silently.
func textHandlePoint(a *assembler, text string) {
	if a.placemark == nil || len(a.geomStack) == 0 {
		return
	}
	p, err := ParsePoint(text)
	if err != nil {
		a.warn(err)
		return
	}
	a.geomStack[len(a.geomStack)-1] = p
}

// textHandleLine parses the text as a whitespace-separated run of
// coordinate tuples and fills the current leaf's reserved stack slot,
// the same way textHandlePoint does. Matches coordinates elements
// under LineString and under either boundary ring of a Polygon; which
// one it was reserved for is recovered from the context path when the
// element closes (see foldLinearRing).
func textHandleLine(a *assembler, text string) {
	if a.placemark == nil || len(a.geomStack) == 0 {
		return
	}
	l, err := ParseLine(text)
	if err != nil {
		a.warn(err)
		return
	}
	a.geomStack[len(a.geomStack)-1] = l
}

// dispatchText finds and runs the most specific text rule matching the
// current path, if any. The path must already reflect the element the
// characters belong to (i.e. called after the enclosing start_element's
// push, matching §4.4 of the spec).
func dispatchText(a *assembler, text string) {
	for _, rule := range textTable {
		if a.ctx.matchSuffix(rule.pattern) {
			rule.action(a, text)
			return
		}
	}
}
