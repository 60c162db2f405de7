package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/deckforge/internal/config"
)

var _ = Describe("Config", func() {
	var testDir string

	BeforeEach(func() {
		var err error
		testDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(testDir)
	})

	Context("defaults", func() {
		It("should match the fixed print constants", func() {
			cfg := config.Default()
			Expect(cfg.Card.WidthPx).To(Equal(744))
			Expect(cfg.Card.HeightPx).To(Equal(1040))
			Expect(cfg.Card.DPI).To(Equal(300.0))
			Expect(cfg.Page.WidthPt).To(Equal(612.0))
			Expect(cfg.Page.HeightPt).To(Equal(792.0))
			Expect(cfg.Page.GutterPt).To(Equal(24))
			Expect(cfg.Page.PrinterOffsetPt).To(Equal(2))
			Expect(cfg.Fit).To(Equal(config.FitStretch))
			Expect(cfg.Validate()).To(Succeed())
		})
	})

	Context("loading", func() {
		It("should overlay file values on the defaults", func() {
			path := filepath.Join(testDir, "deckforge.yaml")
			Expect(os.WriteFile(path, []byte(`
input: spells.csv
stat_label: ATK
fit: crop
card:
  dpi: 600
provider:
  kind: local
  local_dir: ./art
  timeout: 15s
columns:
  name: Spell Name
  stat: Attack
`), 0644)).To(Succeed())

			cfg, err := config.Load(path, false)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Input).To(Equal("spells.csv"))
			Expect(cfg.StatLabel).To(Equal("ATK"))
			Expect(cfg.Fit).To(Equal(config.FitCrop))
			Expect(cfg.Card.DPI).To(Equal(600.0))
			Expect(cfg.Card.WidthPx).To(Equal(744))
			Expect(cfg.Provider.Kind).To(Equal(config.ProviderLocal))
			Expect(cfg.Provider.Timeout).To(Equal(15 * time.Second))
			Expect(cfg.Columns.Name).To(Equal("Spell Name"))
			Expect(cfg.Columns.Lore).To(Equal("Effect/Combo"))
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should fall back to defaults for an optional missing file", func() {
			cfg, err := config.Load(filepath.Join(testDir, "missing.yaml"), true)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Output).To(Equal("cards/cards_duplex.pdf"))
		})

		It("should fail for a required missing file", func() {
			_, err := config.Load(filepath.Join(testDir, "missing.yaml"), false)
			Expect(err).To(HaveOccurred())
		})

		It("should report malformed YAML", func() {
			path := filepath.Join(testDir, "bad.yaml")
			Expect(os.WriteFile(path, []byte("card: [unclosed"), 0644)).To(Succeed())
			_, err := config.Load(path, false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse"))
		})
	})

	DescribeTable("validation",
		func(mutate func(*config.Config), message string) {
			cfg := config.Default()
			mutate(cfg)
			err := cfg.Validate()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("zero card width", func(c *config.Config) { c.Card.WidthPx = 0 }, "card size"),
		Entry("negative dpi", func(c *config.Config) { c.Card.DPI = -300 }, "dpi"),
		Entry("unknown fit", func(c *config.Config) { c.Fit = "contain" }, "fit"),
		Entry("jpeg quality", func(c *config.Config) { c.JPEGQuality = 0 }, "jpeg_quality"),
		Entry("unknown provider", func(c *config.Config) { c.Provider.Kind = "dalle" }, "provider.kind"),
		Entry("zero timeout", func(c *config.Config) { c.Provider.Timeout = 0 }, "provider.timeout"),
		Entry("empty input", func(c *config.Config) { c.Input = "" }, "input is required"),
	)

	It("should read the API key from the configured variable", func() {
		Expect(os.Setenv("DECKFORGE_TEST_KEY", "sk-test")).To(Succeed())
		DeferCleanup(os.Unsetenv, "DECKFORGE_TEST_KEY")
		p := config.Provider{APIKeyEnv: "DECKFORGE_TEST_KEY"}
		Expect(p.APIKey()).To(Equal("sk-test"))
		Expect(config.Provider{}.APIKey()).To(BeEmpty())
	})
})
