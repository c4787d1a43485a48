package idcard

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"pbm-backend/internal/config"
	"pbm-backend/internal/models"
)

// RGB is a color in the card palette.
type RGB struct {
	R, G, B int
}

// Assets are the static, process-lifetime branding resources a card render
// needs: texts, palette, and the script-capable font. Loaded once at
// startup so a missing font fails the process before it serves traffic.
type Assets struct {
	OrgName      string
	RulesHeading string
	NoticeLine1  string
	NoticeLine2  string
	SignCaption  string
	SealCaption  string

	Dark  RGB
	Light RGB

	// FontFamily/FontPath register the TTF used for non-Latin text. Empty
	// FontPath is allowed only when no configured text needs glyphs
	// outside the built-in core fonts.
	FontFamily string
	FontPath   string

	QREnabled     bool
	VerifyBaseURL string
}

// LoadAssets validates the branding configuration. A text that needs script
// glyphs without a usable font is a configuration error, not a per-request
// surprise.
func LoadAssets(cfg *config.Config) (*Assets, error) {
	dark, err := parseHexColor(cfg.Branding.DarkColorHex)
	if err != nil {
		return nil, fmt.Errorf("%w: dark color %q: %v", models.ErrRenderConfiguration, cfg.Branding.DarkColorHex, err)
	}
	light, err := parseHexColor(cfg.Branding.LightColorHex)
	if err != nil {
		return nil, fmt.Errorf("%w: light color %q: %v", models.ErrRenderConfiguration, cfg.Branding.LightColorHex, err)
	}

	a := &Assets{
		OrgName:       cfg.Branding.OrgName,
		RulesHeading:  cfg.Branding.RulesHeading,
		NoticeLine1:   cfg.Branding.NoticeLine1,
		NoticeLine2:   cfg.Branding.NoticeLine2,
		SignCaption:   cfg.Branding.SignCaption,
		SealCaption:   cfg.Branding.SealCaption,
		Dark:          dark,
		Light:         light,
		FontFamily:    cfg.Branding.FontFamily,
		FontPath:      cfg.Branding.FontPath,
		QREnabled:     cfg.Cards.QREnabled,
		VerifyBaseURL: strings.TrimRight(cfg.Verify.BaseURL, "/"),
	}

	if a.needsScriptFont() {
		if a.FontPath == "" {
			return nil, fmt.Errorf("%w: branding text requires a script font but branding.font_path is not set", models.ErrRenderConfiguration)
		}
		if _, err := os.Stat(a.FontPath); err != nil {
			return nil, fmt.Errorf("%w: script font %s: %v", models.ErrRenderConfiguration, a.FontPath, err)
		}
		if a.FontFamily == "" {
			return nil, fmt.Errorf("%w: branding.font_family is not set", models.ErrRenderConfiguration)
		}
	}

	return a, nil
}

// needsScriptFont reports whether any configured text falls outside the
// repertoire of the built-in core fonts.
func (a *Assets) needsScriptFont() bool {
	for _, s := range []string{a.OrgName, a.RulesHeading, a.NoticeLine1, a.NoticeLine2, a.SignCaption, a.SealCaption} {
		for _, r := range s {
			if r > 127 {
				return true
			}
		}
	}
	return false
}

// scriptFamily is the font family used for script regions: the registered
// TTF when one is configured, Helvetica otherwise (Latin-only branding).
func (a *Assets) scriptFamily() string {
	if a.FontPath != "" {
		return a.FontFamily
	}
	return "Helvetica"
}

func parseHexColor(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("want 6 hex digits, got %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, err
	}
	return RGB{R: int(v >> 16 & 0xFF), G: int(v >> 8 & 0xFF), B: int(v & 0xFF)}, nil
}
