package utils

// Print defaults: a 2.48" x 3.46" card at 300 DPI on US Letter.
const (
	DEFAULT_CARD_PIXEL_WIDTH  = 744
	DEFAULT_CARD_PIXEL_HEIGHT = 1040
	DEFAULT_DPI               = 300

	LETTER_PAGE_WIDTH  = 612.0
	LETTER_PAGE_HEIGHT = 792.0

	DEFAULT_GUTTER         = 24
	DEFAULT_PRINTER_OFFSET = 2
)
