// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/deckforge/pkg/utils"
)

const DefaultPath = "deckforge.yaml"

// Fit policies for card art that does not match the card aspect ratio.
const (
	FitStretch = "stretch"
	FitCrop    = "crop"
)

const (
	ProviderStability = "stability"
	ProviderLocal     = "local"
)

type Columns struct {
	Name                string `yaml:"name"`
	Elements            string `yaml:"elements"`
	Lore                string `yaml:"lore"`
	Stat                string `yaml:"stat"`
	Modifier            string `yaml:"modifier"`
	ModifierDescription string `yaml:"modifier_description"`
}

type Fonts struct {
	Primary  string `yaml:"primary"`
	Fallback string `yaml:"fallback"`
	// AllowBuiltin lets the chain end with the embedded Go fonts.
	AllowBuiltin bool `yaml:"allow_builtin"`
}

type Provider struct {
	Kind         string        `yaml:"kind"`
	URL          string        `yaml:"url"`
	APIKeyEnv    string        `yaml:"api_key_env"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	Prompt       string        `yaml:"prompt"`
	OutputFormat string        `yaml:"output_format"`
	LocalDir     string        `yaml:"local_dir"`
	CacheDir     string        `yaml:"cache_dir"`
	NoCache      bool          `yaml:"no_cache"`
}

type Config struct {
	Input        string `yaml:"input"`
	Output       string `yaml:"output"`
	BackingImage string `yaml:"backing_image"`
	IconsDir     string `yaml:"icons_dir"`

	Card struct {
		WidthPx  int     `yaml:"width_px"`
		HeightPx int     `yaml:"height_px"`
		DPI      float64 `yaml:"dpi"`
	} `yaml:"card"`

	Page struct {
		WidthPt         float64 `yaml:"width_pt"`
		HeightPt        float64 `yaml:"height_pt"`
		GutterPt        int     `yaml:"gutter_pt"`
		PrinterOffsetPt int     `yaml:"printer_offset_pt"`
	} `yaml:"page"`

	Fit         string `yaml:"fit"`
	StatLabel   string `yaml:"stat_label"`
	JPEGQuality int    `yaml:"jpeg_quality"`

	Columns  Columns  `yaml:"columns"`
	Fonts    Fonts    `yaml:"fonts"`
	Provider Provider `yaml:"provider"`

	Back struct {
		QR bool `yaml:"qr"`
	} `yaml:"back"`
}

func Default() *Config {
	cfg := &Config{
		Input:        "AreaIdeas.csv",
		Output:       "cards/cards_duplex.pdf",
		BackingImage: "backing.jpg",
		IconsDir:     "icons",
		Fit:          FitStretch,
		StatLabel:    "DEF",
		JPEGQuality:  92,
		Columns: Columns{
			Name:                "Area Name",
			Elements:            "Element Resistance",
			Lore:                "Effect/Combo",
			Stat:                "Defense",
			Modifier:            "Modifier",
			ModifierDescription: "Mod. Description",
		},
		Fonts: Fonts{
			Primary:      "/System/Library/Fonts/Supplemental/Arial.ttf",
			Fallback:     "assets/fonts/DejaVuSans.ttf",
			AllowBuiltin: true,
		},
		Provider: Provider{
			Kind:         ProviderStability,
			URL:          "https://api.stability.ai/v2beta/stable-image/generate/sd3",
			APIKeyEnv:    "STABILITY_API_KEY",
			Timeout:      60 * time.Second,
			Retries:      2,
			RetryDelay:   2 * time.Second,
			Prompt:       "Art Nouveau-style drawing of '{{.Name}}'",
			OutputFormat: "jpeg",
			LocalDir:     "art",
			CacheDir:     utils.GetDefaultCacheDir(),
		},
	}
	cfg.Card.WidthPx = utils.DEFAULT_CARD_PIXEL_WIDTH
	cfg.Card.HeightPx = utils.DEFAULT_CARD_PIXEL_HEIGHT
	cfg.Card.DPI = utils.DEFAULT_DPI
	cfg.Page.WidthPt = utils.LETTER_PAGE_WIDTH
	cfg.Page.HeightPt = utils.LETTER_PAGE_HEIGHT
	cfg.Page.GutterPt = utils.DEFAULT_GUTTER
	cfg.Page.PrinterOffsetPt = utils.DEFAULT_PRINTER_OFFSET
	return cfg
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values. When optional is set a missing file yields the defaults.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Input == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Card.WidthPx <= 0 || c.Card.HeightPx <= 0 {
		errs = append(errs, fmt.Errorf("card size %dx%d px must be positive", c.Card.WidthPx, c.Card.HeightPx))
	}
	if c.Card.DPI <= 0 {
		errs = append(errs, fmt.Errorf("dpi %.2f must be positive", c.Card.DPI))
	}
	if c.Page.WidthPt <= 0 || c.Page.HeightPt <= 0 {
		errs = append(errs, fmt.Errorf("page size %.2fx%.2f pt must be positive", c.Page.WidthPt, c.Page.HeightPt))
	}
	if c.Page.GutterPt < 0 {
		errs = append(errs, fmt.Errorf("gutter %d pt must not be negative", c.Page.GutterPt))
	}
	if c.Fit != FitStretch && c.Fit != FitCrop {
		errs = append(errs, fmt.Errorf("fit %q must be %q or %q", c.Fit, FitStretch, FitCrop))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality %d must be within 1-100", c.JPEGQuality))
	}
	if c.Columns.Name == "" {
		errs = append(errs, errors.New("columns.name is required"))
	}

	switch c.Provider.Kind {
	case ProviderStability:
		if c.Provider.URL == "" {
			errs = append(errs, errors.New("provider.url is required for the stability provider"))
		}
	case ProviderLocal:
		if c.Provider.LocalDir == "" {
			errs = append(errs, errors.New("provider.local_dir is required for the local provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("provider.kind %q must be %q or %q", c.Provider.Kind, ProviderStability, ProviderLocal))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("provider.timeout %s must be positive", c.Provider.Timeout))
	}
	if c.Provider.Retries < 0 {
		errs = append(errs, fmt.Errorf("provider.retries %d must not be negative", c.Provider.Retries))
	}

	return errors.Join(errs...)
}

// APIKey returns the key from the environment variable named by APIKeyEnv.
func (p Provider) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}
