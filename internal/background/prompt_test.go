package background_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/deckforge/internal/background"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

var _ = Describe("PromptBuilder", func() {
	It("should render the card name into the template", func() {
		builder, err := background.NewPromptBuilder("Art Nouveau-style drawing of '{{.Name}}'")
		Expect(err).NotTo(HaveOccurred())

		prompt, err := builder.Build(models.CardRecord{Name: "Ember Hall"})
		Expect(err).NotTo(HaveOccurred())
		Expect(prompt).To(Equal("Art Nouveau-style drawing of 'Ember Hall'"))
	})

	It("should expose the join helper", func() {
		builder, err := background.NewPromptBuilder(`{{.Name}} ({{join .Elements ", "}})`)
		Expect(err).NotTo(HaveOccurred())

		prompt, err := builder.Build(models.CardRecord{Name: "Mire", Elements: []string{"Water", "Earth"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(prompt).To(Equal("Mire (Water, Earth)"))
	})

	It("should reject empty and malformed templates", func() {
		_, err := background.NewPromptBuilder("  ")
		Expect(err).To(MatchError(background.ErrNotConfigured))

		_, err = background.NewPromptBuilder("{{.Name")
		Expect(err).To(HaveOccurred())
	})

	It("should fail on unknown fields", func() {
		builder, err := background.NewPromptBuilder("{{.Colour}}")
		Expect(err).NotTo(HaveOccurred())

		_, err = builder.Build(models.CardRecord{Name: "Mire"})
		Expect(err).To(HaveOccurred())
	})
})
