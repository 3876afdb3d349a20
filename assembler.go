package kmlstream

// docStatus tracks the document-level gate described in the spec's data
// model: outKML before/after the kml element, inKML while inside it.
type docStatus int

const (
	outKML docStatus = iota
	inKML
)

// WarnFunc is called for every locally-recovered coordinate parse
// failure (dropped Points and Lines). It never blocks and never alters
// the parse outcome; pass nil (the default) to ignore these entirely.
type WarnFunc func(err error, path []string)

// ParseOptions configures an assembler run.
type ParseOptions struct {
	// BatchSize is the flush threshold: the assembler flushes to the
	// consumer once more than BatchSize completed placemarks are
	// buffered, so each mid-stream batch holds BatchSize+1 placemarks.
	// Zero or a negative value selects the default of 64.
	BatchSize int
	// ChunkSize is the buffered read size handed to the default XML
	// Source. Zero selects bufio's default.
	ChunkSize int
	// Warn, if non-nil, is called for every recovered coordinate parse
	// error.
	Warn WarnFunc
}

func (o ParseOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return 64
	}
	return o.BatchSize
}

// assembler is the push-down state machine that turns SAX events into
// Placemark values. It owns all mutable parse state and is never
// accessed from more than one goroutine at a time.
type assembler struct {
	status docStatus

	ctx       context
	geomStack []Geometry
	placemark *Placemark

	emit      []Placemark
	batchSize int
	warnFn    WarnFunc
}

func newAssembler(opts ParseOptions) *assembler {
	return &assembler{
		batchSize: opts.batchSize(),
		warnFn:    opts.Warn,
	}
}

func (a *assembler) warn(err error) {
	if a.warnFn != nil {
		a.warnFn(err, append([]string(nil), a.ctx.names...))
	}
}

// onEvent feeds one SAX event through the state machine. readyBatch is
// non-nil when this event caused the emit buffer to cross batchSize and
// a flush should happen before the next event is processed.
func (a *assembler) onEvent(ev Event) (readyBatch []Placemark, err error) {
	switch ev.Kind {
	case StartElement:
		err = a.onStart(ev)
	case EndElement:
		err = a.onEnd(ev)
	case Characters:
		if a.placemark != nil {
			dispatchText(a, ev.Text)
		}
	case EndDocument:
		if a.status == inKML {
			return nil, &ParseError{
				Path:    append([]string(nil), a.ctx.names...),
				Message: "document ended inside an open kml element",
				Cause:   ErrUnexpectedEndDocument,
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if len(a.emit) > a.batchSize {
		readyBatch = a.emit
		a.emit = nil
	}
	return readyBatch, nil
}

// finalFlush returns and clears any placemarks still buffered. Called
// once at end_document, regardless of batchSize.
func (a *assembler) finalFlush() []Placemark {
	out := a.emit
	a.emit = nil
	return out
}

func (a *assembler) onStart(ev Event) error {
	switch {
	case ev.Name == "Placemark" && a.placemark == nil:
		a.ctx.reset()
		a.placemark = newPlacemark()
		return nil

	case ev.Name == "kml":
		a.status = inKML
		a.ctx.push(ev.Name, ev.Attrs)
		return nil

	case a.placemark == nil:
		// Outside any placemark, structural elements are tracked only
		// for the kml status gate above; everything else is a no-op.
		return nil

	case ev.Name == "MultiGeometry":
		a.ctx.push(ev.Name, ev.Attrs)
		a.geomStack = append(a.geomStack, &MultiGeometry{})
		return nil

	case ev.Name == "Polygon":
		a.ctx.push(ev.Name, ev.Attrs)
		a.geomStack = append(a.geomStack, &Polygon{})
		return nil

	case ev.Name == "Point" || ev.Name == "LineString" || ev.Name == "LinearRing":
		// Reserve this leaf's stack slot now, before its coordinates
		// text arrives. The text handler fills the slot on success and
		// leaves it nil on a recovered parse failure, so the matching
		// exit below can tell "nothing to fold" (tolerate) apart from
		// "stack underflow" (a real structural error).
		a.ctx.push(ev.Name, ev.Attrs)
		a.geomStack = append(a.geomStack, nil)
		return nil

	default:
		a.ctx.push(ev.Name, ev.Attrs)
		return nil
	}
}

func (a *assembler) onEnd(ev Event) error {
	if ev.Name == "kml" {
		a.status = outKML
		a.ctx.pop()
		return nil
	}

	if a.placemark == nil {
		return nil
	}

	// A nested Placemark (absorbed as a generic child, see onStart) left
	// its own name on the context path when it opened; its close must
	// pop that like any other generic element rather than finalize the
	// real, outer placemark.
	if ev.Name == "Placemark" && len(a.ctx.names) > 0 && a.ctx.names[len(a.ctx.names)-1] == "Placemark" {
		a.ctx.pop()
		return nil
	}

	switch ev.Name {
	case "Placemark":
		pm := *a.placemark
		a.emit = append(a.emit, pm)
		a.placemark = nil
		a.ctx.reset()
		return nil

	case "Point", "LineString", "Polygon":
		if err := a.foldGeometryPop(); err != nil {
			return err
		}
		a.ctx.pop()
		return nil

	case "LinearRing":
		if err := a.foldLinearRing(); err != nil {
			return err
		}
		a.ctx.pop()
		return nil

	case "MultiGeometry":
		if err := a.foldGeometryPop(); err != nil {
			return err
		}
		a.ctx.pop()
		return nil

	default:
		a.ctx.pop()
		return nil
	}
}

// topGeom returns the head of the geometry stack without popping it, or
// nil if the stack is empty.
func (a *assembler) topGeom() Geometry {
	if len(a.geomStack) == 0 {
		return nil
	}
	return a.geomStack[len(a.geomStack)-1]
}

// foldGeometryPop pops the completed geometry at the top of geomStack
// and folds it into whatever is now the new top (or into the
// placemark, if the stack is now empty). A nil slot (a Point or
// LineString whose coordinates failed to parse) is popped and silently
// dropped: nothing folds into the parent, and parsing continues.
func (a *assembler) foldGeometryPop() error {
	if len(a.geomStack) == 0 {
		return a.foldError("geometry stack empty on exit", ErrStructuralFold)
	}
	completed := a.topGeom()
	a.geomStack = a.geomStack[:len(a.geomStack)-1]

	if completed == nil {
		return nil
	}
	parent := a.topGeom()
	if parent == nil {
		a.placemark.putGeometry(completed)
		return nil
	}
	if err := mergeGeometry(parent, completed, outerBoundary); err != nil {
		return a.foldError("fold into parent geometry", err)
	}
	return nil
}

// foldLinearRing pops a completed Line (always the result of a
// LinearRing close) and folds it as either the outer or an inner
// boundary of the Polygon beneath it, determined from the enclosing
// boundary element name still on the context path. A nil slot (bad
// coordinates) is dropped the same way foldGeometryPop drops one.
func (a *assembler) foldLinearRing() error {
	if len(a.geomStack) == 0 {
		return a.foldError("geometry stack empty on LinearRing exit", ErrStructuralFold)
	}
	completed := a.topGeom()
	a.geomStack = a.geomStack[:len(a.geomStack)-1]

	if completed == nil {
		return nil
	}
	parent := a.topGeom()
	if parent == nil {
		return a.foldError("LinearRing with no enclosing Polygon", ErrStructuralFold)
	}

	kind := outerBoundary
	if n := len(a.ctx.names); n >= 2 && a.ctx.names[n-2] == "innerBoundaryIs" {
		kind = innerBoundary
	}
	if err := mergeGeometry(parent, completed, kind); err != nil {
		return a.foldError("fold LinearRing into polygon", err)
	}
	return nil
}

// foldError wraps a fatal fold failure as a ParseError carrying the
// element path active when it occurred, so a caller can locate the
// offending fragment without re-scanning the document.
func (a *assembler) foldError(message string, cause error) error {
	return &ParseError{
		Path:    append([]string(nil), a.ctx.names...),
		Message: message,
		Cause:   cause,
	}
}
