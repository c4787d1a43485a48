package idcard

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"pbm-backend/internal/config"
	"pbm-backend/internal/models"
)

// testConfig uses Latin-only branding so renders run on the built-in core
// fonts with no TTF on disk.
func testConfig() *config.Config {
	return &config.Config{
		Cards: config.CardsConfig{WidthMM: 105, HeightMM: 74, QREnabled: true},
		Branding: config.BrandingConfig{
			OrgName:       "Pasumai Bharatham Makkal Katchi",
			RulesHeading:  "Membership Rules",
			NoticeLine1:   "This card is the property of the organization.",
			NoticeLine2:   "Report loss to the district office.",
			SignCaption:   "State Secretary",
			SealCaption:   "OFFICIAL",
			DarkColorHex:  "#0F7A3E",
			LightColorHex: "#5FB48C",
		},
		Verify: config.VerifyConfig{BaseURL: "https://example.org/"},
	}
}

func testMember() *models.Member {
	return &models.Member{
		ID:           1,
		MembershipNo: "PBM-2025-000042",
		Name:         "Test User",
		Mobile:       "9000000001",
		District:     "Chennai",
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: 120, B: 60, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderWithoutPhoto(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	doc, err := r.Render(testMember(), nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	require.Contains(t, string(doc), "/Count 2", "card must have a front and a back page")
}

func TestRenderIsDeterministic(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	first, err := r.Render(testMember(), nil)
	require.NoError(t, err)
	second, err := r.Render(testMember(), nil)
	require.NoError(t, err)
	require.Equal(t, first, second, "re-rendering the same record must produce identical bytes")
}

func TestRenderWithPhoto(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	blank, err := r.Render(testMember(), nil)
	require.NoError(t, err)
	withPhoto, err := r.Render(testMember(), encodePNG(t, 40, 60))
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(withPhoto, []byte("%PDF")))
	require.NotEqual(t, blank, withPhoto)
}

func TestRenderDegradesOnCorruptPhoto(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	blank, err := r.Render(testMember(), nil)
	require.NoError(t, err)
	corrupt, err := r.Render(testMember(), []byte("definitely not an image"))
	require.NoError(t, err)

	// An undecodable photo leaves the region blank instead of failing.
	require.Equal(t, blank, corrupt)
}

func TestRenderQRDisabled(t *testing.T) {
	enabledCfg := testConfig()
	disabledCfg := testConfig()
	disabledCfg.Cards.QREnabled = false

	enabled, err := NewRenderer(enabledCfg)
	require.NoError(t, err)
	disabled, err := NewRenderer(disabledCfg)
	require.NoError(t, err)

	withQR, err := enabled.Render(testMember(), nil)
	require.NoError(t, err)
	withoutQR, err := disabled.Render(testMember(), nil)
	require.NoError(t, err)
	require.NotEqual(t, withQR, withoutQR)
}

func TestNewRendererRequiresScriptFontForNonLatinText(t *testing.T) {
	cfg := testConfig()
	cfg.Branding.OrgName = "பசுமை பாரத மக்கள் கட்சி"
	cfg.Branding.FontPath = ""

	_, err := NewRenderer(cfg)
	require.ErrorIs(t, err, models.ErrRenderConfiguration)
}

func TestNewRendererRejectsMissingFontFile(t *testing.T) {
	cfg := testConfig()
	cfg.Branding.OrgName = "பசுமை பாரத மக்கள் கட்சி"
	cfg.Branding.FontPath = "/nonexistent/font.ttf"
	cfg.Branding.FontFamily = "NotoSansTamil"

	_, err := NewRenderer(cfg)
	require.ErrorIs(t, err, models.ErrRenderConfiguration)
}

func TestNewRendererRejectsBadPalette(t *testing.T) {
	cfg := testConfig()
	cfg.Branding.DarkColorHex = "green"

	_, err := NewRenderer(cfg)
	require.ErrorIs(t, err, models.ErrRenderConfiguration)
}

func TestVerifyURL(t *testing.T) {
	r, err := NewRenderer(testConfig())
	require.NoError(t, err)

	// The configured base URL's trailing slash must not double up.
	require.Equal(t, "https://example.org/verify/9000000001", r.Assets().VerifyURL("9000000001"))
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#0F7A3E")
	require.NoError(t, err)
	require.Equal(t, RGB{R: 0x0F, G: 0x7A, B: 0x3E}, c)

	c, err = parseHexColor("5FB48C")
	require.NoError(t, err)
	require.Equal(t, RGB{R: 0x5F, G: 0xB4, B: 0x8C}, c)

	_, err = parseHexColor("#FFF")
	require.Error(t, err)
	_, err = parseHexColor("#GGGGGG")
	require.Error(t, err)
}
