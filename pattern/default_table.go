package pattern

import "github.com/domino14/hexsolve/geometry"

// DefaultTable returns a small built-in library of classical first-ring
// Hex patterns — enough to exercise the full pattern-dispatch pipeline
// end to end. ICEPatternFile's on-disk encoding is out of scope (spec.md
// §6); this is the decoded table a real loader would hand ICE.
//
// Patterns are written in one canonical orientation; Match tries all 12
// ring symmetries, so only one instance per color-pair is needed here —
// each is instantiated for both Black and White by the two appended
// copies below.
func DefaultTable() *Table {
	var pats []Pattern

	// A cell whose entire first ring is occupied (by anyone) is dead:
	// neither player gains by playing there, since it cannot extend any
	// empty-neighbor liberty set.
	pats = append(pats, Pattern{
		Kind:       Dead,
		Slots:      [ringSize]ReqState{ReqNotEmpty, ReqNotEmpty, ReqNotEmpty, ReqNotEmpty, ReqNotEmpty, ReqNotEmpty},
		KillerSlot: -1,
	})

	for _, c := range []geometry.Color{geometry.Black, geometry.White} {
		// Captured(c): completely surrounded by c already — playing
		// here is strictly equivalent to it already being a c-stone.
		pats = append(pats, Pattern{
			Kind:       Captured,
			Color:      c,
			Slots:      [ringSize]ReqState{ReqOwn, ReqOwn, ReqOwn, ReqOwn, ReqOwn, ReqOwn},
			KillerSlot: -1,
		})

		// PermanentlyInferior(c): five c-neighbors and one cell that is
		// either empty or c; captured for c as long as that last slot
		// never becomes the opponent's.
		pats = append(pats, Pattern{
			Kind:        PermInf,
			Color:       c,
			Slots:       [ringSize]ReqState{ReqOwn, ReqOwn, ReqOwn, ReqOwn, ReqOwn, ReqEmptyOrOwn},
			KillerSlot:  -1,
			CarrierSlot: []int{5},
		})

		// Vulnerable(c): four c-neighbors, one opponent neighbor, and
		// one empty neighbor — the empty neighbor is the killer reply
		// that punishes c playing here instead of there directly.
		pats = append(pats, Pattern{
			Kind:       Vulnerable,
			Color:      c,
			Slots:      [ringSize]ReqState{ReqOwn, ReqOwn, ReqOwn, ReqOwn, ReqOpp, ReqEmpty},
			KillerSlot: 5,
		})

		// Reversible(c): three c-neighbors, one opponent neighbor, two
		// empty neighbors that form the reverser carrier.
		pats = append(pats, Pattern{
			Kind:        Reversible,
			Color:       c,
			Slots:       [ringSize]ReqState{ReqOwn, ReqOwn, ReqOwn, ReqOpp, ReqEmpty, ReqEmpty},
			KillerSlot:  -1,
			CarrierSlot: []int{4, 5},
		})

		// Dominated(c): two c-neighbors, four empty neighbors — any one
		// of two designated empties dominates playing here directly.
		pats = append(pats, Pattern{
			Kind:        Dominated,
			Color:       c,
			Slots:       [ringSize]ReqState{ReqOwn, ReqOwn, ReqEmpty, ReqEmpty, ReqEmpty, ReqEmpty},
			KillerSlot:  -1,
			CarrierSlot: []int{2, 3},
		})
	}

	return NewTable(pats)
}
