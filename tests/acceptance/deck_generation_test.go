package acceptance_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/deckforge/internal/config"
	"github.com/kpauljoseph/deckforge/internal/layout"
	"github.com/kpauljoseph/deckforge/internal/pipeline"
	"github.com/kpauljoseph/deckforge/internal/render"
	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
)

const apiKeyEnv = "DECKFORGE_ACCEPTANCE_KEY"

const areaTable = "Area Name,Element Resistance,Effect/Combo,Defense,Modifier,Mod. Description\n" +
	"Ember Hall,Fire,Burns twice,3,+1,Heat rises\n" +
	"Still Pool,\"Water, Earth\",Calm,2,-1,Nothing moves\n" +
	"Mire,None,Sinks,1,0,Slow\n" +
	"Gale Steps,Wind,Pushes,4.0,+2,Gusts\n" +
	"Prism Vault,Rainbow,Shines,5,0,Glitters\n"

// Art colors by card name; cards not listed get a server error.
var artColors = map[string]color.NRGBA{
	"Ember Hall":  {R: 210, G: 40, B: 40, A: 255},
	"Still Pool":  {R: 40, G: 190, B: 60, A: 255},
	"Gale Steps":  {R: 40, G: 60, B: 210, A: 255},
	"Prism Vault": {R: 220, G: 200, B: 30, A: 255},
}

type imageAPI struct {
	mu       sync.Mutex
	requests map[string]int
}

func (a *imageAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer acceptance" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	prompt := r.FormValue("prompt")
	name := strings.TrimSuffix(strings.TrimPrefix(prompt, "Art Nouveau-style drawing of '"), "'")

	a.mu.Lock()
	a.requests[name]++
	a.mu.Unlock()

	c, ok := artColors[name]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"name":"internal_error","errors":["generation failed"]}`))
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(300, 420, c), imaging.JPEG); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(buf.Bytes())
}

func (a *imageAPI) count(name string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests[name]
}

func near(expected color.NRGBA) OmegaMatcher {
	return SatisfyAll(
		WithTransform(func(c color.NRGBA) int { return int(c.R) }, BeNumerically("~", int(expected.R), 40)),
		WithTransform(func(c color.NRGBA) int { return int(c.G) }, BeNumerically("~", int(expected.G), 40)),
		WithTransform(func(c color.NRGBA) int { return int(c.B) }, BeNumerically("~", int(expected.B), 40)),
	)
}

func cellCenter(page image.Image, g layout.Geometry, slot layout.Slot) color.NRGBA {
	cell := g.Cell(slot)
	x := cell.X + cell.Width/2
	y := int(cell.Top(g.PageHeight)) + cell.Height/2
	return color.NRGBAModel.Convert(page.At(x, y)).(color.NRGBA)
}

const proofDPI = 300

// QR code area on the back card design, in card pixels.
var backQR = image.Rect(312, 860, 432, 980)

func renderBacks(cfg *config.Config, log *logger.Logger, names []string) []image.Image {
	theme, err := render.NewTheme(cfg.Fonts, log)
	Expect(err).NotTo(HaveOccurred())
	backing, err := imaging.Open(cfg.BackingImage)
	Expect(err).NotTo(HaveOccurred())

	renderer, err := render.NewBackRenderer(theme, backing, render.BackOptions{
		Size: models.PixelSize{Width: cfg.Card.WidthPx, Height: cfg.Card.HeightPx},
		Fit:  cfg.Fit,
		QR:   true,
	}, log)
	Expect(err).NotTo(HaveOccurred())

	backs := make([]image.Image, len(names))
	for i, name := range names {
		backs[i], err = renderer.Render(models.CardRecord{Row: i + 1, Name: name})
		Expect(err).NotTo(HaveOccurred())
	}
	return backs
}

func dark(c color.Color) bool {
	return color.GrayModel.Convert(c).(color.Gray).Y < 128
}

// closestBack compares the QR area of a back cell on the rendered page with
// each candidate back and returns the index of the best match.
func closestBack(page image.Image, g layout.Geometry, cell layout.Rect, candidates []image.Image) int {
	scale := proofDPI / float64(layout.PointsPerInch)
	top := cell.Top(g.PageHeight)
	card := candidates[0].Bounds()
	sx := float64(cell.Width) / float64(card.Dx())
	sy := float64(cell.Height) / float64(card.Dy())

	best, bestMisses := -1, 0
	for k, candidate := range candidates {
		misses := 0
		for y := backQR.Min.Y + 2; y < backQR.Max.Y; y += 4 {
			for x := backQR.Min.X + 2; x < backQR.Max.X; x += 4 {
				px := int((float64(cell.X) + float64(x)*sx) * scale)
				py := int((top + float64(y)*sy) * scale)
				if dark(page.At(px, py)) != dark(candidate.At(x, y)) {
					misses++
				}
			}
		}
		GinkgoWriter.Printf("cell (%d,%d) vs back %d: %d misses\n", cell.X, cell.Y, k, misses)
		if best < 0 || misses < bestMisses {
			best, bestMisses = k, misses
		}
	}
	return best
}

var _ = Describe("DeckForge End-to-End", Ordered, func() {
	var (
		workDir    string
		images     *imageAPI
		server     *httptest.Server
		cfg        *config.Config
		geometry   layout.Geometry
		testLogger *logger.Logger
		ctx        context.Context
	)

	BeforeAll(func() {
		var err error
		workDir, err = os.MkdirTemp("", "deckforge-acceptance-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, workDir)

		images = &imageAPI{requests: map[string]int{}}
		server = httptest.NewServer(images)
		DeferCleanup(server.Close)

		os.Setenv(apiKeyEnv, "acceptance")
		DeferCleanup(os.Unsetenv, apiKeyEnv)

		Expect(os.WriteFile(filepath.Join(workDir, "AreaIdeas.csv"), []byte(areaTable), 0644)).To(Succeed())
		Expect(imaging.Save(imaging.New(744, 1040, color.NRGBA{R: 90, G: 60, B: 30, A: 255}), filepath.Join(workDir, "backing.jpg"))).To(Succeed())

		iconDir := filepath.Join(workDir, "icons")
		Expect(os.MkdirAll(iconDir, 0755)).To(Succeed())
		for _, element := range []string{"fire", "water", "earth", "wind", "rainbow"} {
			Expect(imaging.Save(imaging.New(64, 64, color.NRGBA{R: 250, G: 250, B: 250, A: 255}), filepath.Join(iconDir, element+".png"))).To(Succeed())
		}

		cfg = config.Default()
		cfg.Input = filepath.Join(workDir, "AreaIdeas.csv")
		cfg.Output = filepath.Join(workDir, "cards", "cards_duplex.pdf")
		cfg.BackingImage = filepath.Join(workDir, "backing.jpg")
		cfg.IconsDir = iconDir
		cfg.Fonts.Primary = filepath.Join(workDir, "no-such-font.ttf")
		cfg.Fonts.Fallback = ""
		cfg.Provider.URL = server.URL
		cfg.Provider.APIKeyEnv = apiKeyEnv
		cfg.Provider.Retries = 1
		cfg.Provider.RetryDelay = time.Millisecond
		cfg.Provider.CacheDir = filepath.Join(workDir, "cache")
		cfg.Back.QR = true

		geometry, err = layout.NewGeometry(layout.Options{
			CardPixelWidth:  cfg.Card.WidthPx,
			CardPixelHeight: cfg.Card.HeightPx,
			DPI:             cfg.Card.DPI,
			PageWidth:       cfg.Page.WidthPt,
			PageHeight:      cfg.Page.HeightPt,
			Gutter:          cfg.Page.GutterPt,
			PrinterOffset:   cfg.Page.PrinterOffsetPt,
		})
		Expect(err).NotTo(HaveOccurred())
	})

	BeforeEach(func() {
		ctx = context.Background()
		testLogger = logger.New(logger.WithOutput(GinkgoWriter), logger.WithPrefix("[acceptance] "), logger.WithLevel(logger.LevelDebug))
	})

	Context("five records with the third background failing", Label("happy-path"), func() {
		It("should produce one sheet holding the other four cards", func() {
			By("Running the pipeline")
			p, err := pipeline.New(ctx, cfg, testLogger)
			Expect(err).NotTo(HaveOccurred())

			report, result, err := p.Run(ctx)
			Expect(err).NotTo(HaveOccurred())
			report.Print(testLogger)

			By("Reporting the skipped record")
			Expect(report.Rows).To(Equal(5))
			Expect(report.Cards).To(Equal(4))
			Expect(report.Skipped).To(HaveLen(1))
			Expect(report.Skipped[0].Row).To(Equal(3))
			Expect(report.Skipped[0].Name).To(Equal("Mire"))
			Expect(report.Skipped[0].Reason).To(Equal(models.SkipNoBackground))
			Expect(images.count("Mire")).To(Equal(2))

			By("Writing exactly one front and one back page")
			Expect(result.Path).To(Equal(cfg.Output))
			Expect(result.Pages).To(Equal(2))
			pages, err := api.PageCountFile(cfg.Output)
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(Equal(2))

			entries, err := os.ReadDir(filepath.Dir(cfg.Output))
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))

			By("Placing the fronts in record order")
			doc, err := fitz.New(cfg.Output)
			Expect(err).NotTo(HaveOccurred())
			defer doc.Close()

			front, err := doc.ImageDPI(0, layout.PointsPerInch)
			Expect(err).NotTo(HaveOccurred())
			for slot, name := range []string{"Ember Hall", "Still Pool", "Gale Steps", "Prism Vault"} {
				Expect(cellCenter(front, geometry, layout.Slot(slot))).To(near(artColors[name]), name)
			}

			By("Filling every back cell")
			back, err := doc.ImageDPI(1, layout.PointsPerInch)
			Expect(err).NotTo(HaveOccurred())
			for slot := layout.Slot(0); slot < layout.SlotsPerPage; slot++ {
				Expect(cellCenter(back, geometry, slot)).To(near(color.NRGBA{R: 255, G: 254, B: 255, A: 255}))
			}

			By("Printing each back behind its own front")
			fine, err := doc.ImageDPI(1, proofDPI)
			Expect(err).NotTo(HaveOccurred())
			names := []string{"Ember Hall", "Still Pool", "Gale Steps", "Prism Vault"}
			expected := renderBacks(cfg, testLogger, names)
			for slot, name := range names {
				cell := geometry.Cell(layout.Mirror(layout.Slot(slot)))
				Expect(closestBack(fine, geometry, cell, expected)).To(Equal(slot), name)
			}
		})

		It("should reuse cached backgrounds on a second run", func() {
			before := images.count("Ember Hall")

			p, err := pipeline.New(ctx, cfg, testLogger)
			Expect(err).NotTo(HaveOccurred())
			report, _, err := p.Run(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(report.Cards).To(Equal(4))
			Expect(images.count("Ember Hall")).To(Equal(before))
			Expect(images.count("Mire")).To(Equal(4))
		})
	})

	Context("when the card table is missing", func() {
		It("should fail before producing any output", func() {
			missing := *cfg
			missing.Input = filepath.Join(workDir, "missing.csv")
			missing.Output = filepath.Join(workDir, "never", "deck.pdf")

			_, err := pipeline.New(ctx, &missing, testLogger)
			Expect(err).To(MatchError(pipeline.ErrMissingInput))
			Expect(filepath.Dir(missing.Output)).NotTo(BeADirectory())
		})
	})
})
