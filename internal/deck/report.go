package deck

import (
	"time"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

// Report summarizes a run for the user.
type Report struct {
	Rows     int
	Cards    int
	Pages    int
	Skipped  []models.Skip
	Duration time.Duration
}

func (r *Report) Print(log *logger.Logger) {
	log.Info("Rows read: %d", r.Rows)
	log.Info("Cards produced: %d", r.Cards)
	if r.Pages > 0 {
		log.Info("Pages written: %d", r.Pages)
	}
	if len(r.Skipped) > 0 {
		log.Info("Rows skipped: %d", len(r.Skipped))
		for _, skip := range r.Skipped {
			log.Info("  %s", skip)
		}
	}
	log.Info("Finished in %s", r.Duration.Round(time.Millisecond))
}
