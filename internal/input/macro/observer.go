package macro

// Observer receives the structural changes of a List so a presentation
// layer can mirror them. The List is the source of truth for order; an
// observer must never reorder lines on its own.
//
// Callbacks run on the goroutine that mutated the list, in the order the
// changes were made, with no List or Session lock held. A callback may
// read the list or query a Session that appends to it.
type Observer interface {
	// LineInserted reports a new line at position.
	LineInserted(id LineID, position int)

	// LineRemoved reports a removed line. Lines after it moved up by one.
	LineRemoved(id LineID)

	// LinesReordered reports that lines a and b swapped places and now sit
	// at posA and posB.
	LinesReordered(a, b LineID, posA, posB int)

	// LineVariantChanged reports that a line's action was replaced by the
	// default action of kind.
	LineVariantChanged(id LineID, kind Kind)

	// LineUpdated reports an in-place edit of a line's payload.
	LineUpdated(id LineID)
}

// NopObserver implements Observer with no-ops. Embed it to implement only
// the callbacks you need.
type NopObserver struct{}

func (NopObserver) LineInserted(LineID, int)                {}
func (NopObserver) LineRemoved(LineID)                      {}
func (NopObserver) LinesReordered(LineID, LineID, int, int) {}
func (NopObserver) LineVariantChanged(LineID, Kind)         {}
func (NopObserver) LineUpdated(LineID)                      {}
