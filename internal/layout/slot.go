package layout

import "fmt"

// Slot addresses a grid cell, 0..3, in reading order.
type Slot int

func (s Slot) Column() int { return int(s) % Columns }
func (s Slot) Row() int    { return int(s) / Columns }

func (s Slot) Valid() bool { return s >= 0 && s < SlotsPerPage }

func (s Slot) String() string {
	return fmt.Sprintf("slot %d (col %d, row %d)", int(s), s.Column(), s.Row())
}

// mirrorSlots swaps the columns of each row. A sheet flipped along its
// vertical edge puts a back cell at mirrorSlots[j] behind front cell j.
var mirrorSlots = [SlotsPerPage]Slot{1, 0, 3, 2}

// Mirror maps a front slot to the back slot behind it. It is its own inverse.
func Mirror(s Slot) Slot {
	if !s.Valid() {
		panic(fmt.Sprintf("layout: mirror of out-of-range slot %d", int(s)))
	}
	return mirrorSlots[s]
}
