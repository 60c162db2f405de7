package layout

import (
	"errors"
	"fmt"
)

var ErrSequenceMismatch = errors.New("front and back sequences differ in length")

type Side int

const (
	Front Side = iota
	Back
)

func (s Side) String() string {
	if s == Back {
		return "back"
	}
	return "front"
}

// Placement puts card Index (position in the front and back sequences) into a cell.
type Placement struct {
	Index int
	Slot  Slot
	Rect  Rect
}

// Page is one sheet side. Pages from the same batch share Batch.
type Page struct {
	Number     int
	Batch      int
	Side       Side
	Placements []Placement
}

// Plan is the ordered list of pages for a deck: front, back, front, back...
type Plan struct {
	Geometry Geometry
	Cards    int
	Pages    []Page
}

// PageCount returns 2*ceil(cards/4).
func PageCount(cards int) int {
	if cards <= 0 {
		return 0
	}
	return 2 * ((cards + SlotsPerPage - 1) / SlotsPerPage)
}

// NewPlan lays out fronts and backs card counts on g. The counts must match,
// since order is the only thing tying a back to its front.
func NewPlan(g Geometry, fronts, backs int) (*Plan, error) {
	if fronts != backs {
		return nil, fmt.Errorf("%w: %d fronts, %d backs", ErrSequenceMismatch, fronts, backs)
	}

	plan := &Plan{
		Geometry: g,
		Cards:    fronts,
		Pages:    make([]Page, 0, PageCount(fronts)),
	}

	for start, batch := 0, 0; start < fronts; start, batch = start+SlotsPerPage, batch+1 {
		end := min(start+SlotsPerPage, fronts)

		front := Page{Number: len(plan.Pages) + 1, Batch: batch, Side: Front}
		back := Page{Number: len(plan.Pages) + 2, Batch: batch, Side: Back}
		for j := 0; j < end-start; j++ {
			slot := Slot(j)
			front.Placements = append(front.Placements, Placement{Index: start + j, Slot: slot, Rect: g.Cell(slot)})

			mirrored := Mirror(slot)
			back.Placements = append(back.Placements, Placement{Index: start + j, Slot: mirrored, Rect: g.Cell(mirrored)})
		}

		plan.Pages = append(plan.Pages, front, back)
	}

	return plan, nil
}
