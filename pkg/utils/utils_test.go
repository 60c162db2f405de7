package utils_test

import (
	"image"
	"image/color"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/deckforge/pkg/utils"
)

var _ = Describe("Utils", func() {
	DescribeTable("Slug",
		func(name, expected string) {
			Expect(utils.Slug(name)).To(Equal(expected))
		},
		Entry("simple name", "Ember Hall", "ember-hall"),
		Entry("punctuation runs", "  Mire -- of   Ash! ", "mire-of-ash"),
		Entry("digits kept", "Room 101", "room-101"),
		Entry("only symbols", "⚫", ""),
	)

	Context("HashKey", func() {
		It("should be stable for the same parts", func() {
			Expect(utils.HashKey("stability", "prompt")).To(Equal(utils.HashKey("stability", "prompt")))
		})

		It("should not collide when parts shift across the separator", func() {
			Expect(utils.HashKey("ab", "c")).NotTo(Equal(utils.HashKey("a", "bc")))
		})
	})

	Context("GenerateImageHash", func() {
		It("should tell different images apart", func() {
			a := image.NewRGBA(image.Rect(0, 0, 2, 2))
			b := image.NewRGBA(image.Rect(0, 0, 2, 2))
			b.Set(1, 1, color.RGBA{255, 0, 0, 255})

			ha, err := utils.GenerateImageHash(a)
			Expect(err).NotTo(HaveOccurred())
			hb, err := utils.GenerateImageHash(b)
			Expect(err).NotTo(HaveOccurred())
			Expect(ha).NotTo(Equal(hb))
		})
	})
})
