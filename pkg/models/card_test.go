package models_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/deckforge/pkg/models"
)

var _ = Describe("Card Models", func() {
	Context("CardRecord", func() {
		It("should properly store record information", func() {
			card := models.CardRecord{
				Row:          2,
				Name:         "Ember Hall",
				Elements:     []string{"Fire", "Earth"},
				Lore:         "Heat rises.",
				Stat:         "3",
				Modifier:     "+1",
				ModifierDesc: "Adds one.",
			}

			Expect(card.Name).To(Equal("Ember Hall"))
			Expect(card.HasElements()).To(BeTrue())
			Expect(card.Plain).To(BeFalse())
			Expect(card.String()).To(Equal("row 2 (Ember Hall)"))
		})

		It("should report no elements for an empty list", func() {
			Expect(models.CardRecord{}.HasElements()).To(BeFalse())
		})
	})

	Context("Skip", func() {
		It("should describe the row, name, reason and cause", func() {
			skip := models.Skip{
				Row:    4,
				Name:   "Mire",
				Reason: models.SkipNoBackground,
				Err:    errors.New("status 500"),
			}
			Expect(skip.String()).To(Equal("row 4 (Mire): no background: status 500"))
		})

		It("should leave out empty parts", func() {
			skip := models.Skip{Row: 7, Reason: models.SkipMissingName}
			Expect(skip.String()).To(Equal("row 7: missing name"))
		})
	})
})
