package idcard

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"pbm-backend/internal/config"
	"pbm-backend/internal/models"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Output timestamps are pinned so re-rendering the same record produces
// identical bytes.
var fixedDocDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Renderer lays a member record out on the fixed two-page card canvas. A
// render is a pure function of the record, the photo bytes and the loaded
// assets; it performs no I/O.
type Renderer struct {
	assets  *Assets
	width   float64
	height  float64
	regions []Region
}

// NewRenderer validates the branding assets and builds the card layout.
// Construction fails with models.ErrRenderConfiguration when the required
// script font is missing, so main can refuse to serve.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	assets, err := LoadAssets(cfg)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		assets:  assets,
		width:   cfg.Cards.WidthMM,
		height:  cfg.Cards.HeightMM,
		regions: cardLayout(cfg.Cards.WidthMM, cfg.Cards.HeightMM, assets),
	}, nil
}

// Assets exposes the loaded branding assets.
func (r *Renderer) Assets() *Assets { return r.assets }

// Render produces the two-page card PDF for a member. photo holds the raw
// uploaded image bytes and may be nil; an absent or undecodable photo
// leaves the photo region blank and never fails the render.
func (r *Renderer) Render(m *models.Member, photo []byte) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "mm",
		OrientationStr: "P",
		Size:           gofpdf.SizeType{Wd: r.width, Ht: r.height},
	})
	pdf.SetCreationDate(fixedDocDate)
	pdf.SetModificationDate(fixedDocDate)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	if r.assets.FontPath != "" {
		pdf.AddUTF8Font(r.assets.FontFamily, "", r.assets.FontPath)
		if pdf.Err() {
			return nil, fmt.Errorf("%w: register font %s: %v",
				models.ErrRenderConfiguration, r.assets.FontPath, pdf.Error())
		}
	}
	scriptFamily := r.assets.scriptFamily()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range []int{PageFront, PageBack} {
		pdf.AddPage()

		// White background.
		pdf.SetFillColor(255, 255, 255)
		pdf.Rect(0, 0, r.width, r.height, "F")

		for _, region := range r.regions {
			if region.Page != page {
				continue
			}
			r.drawRegion(pdf, region, m, photo, scriptFamily, tr)
		}
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render card for %s: %v", m.Mobile, pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write card for %s: %w", m.Mobile, err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawRegion(pdf *gofpdf.Fpdf, region Region, m *models.Member, photo []byte, scriptFamily string, tr func(string) string) {
	switch region.Kind {
	case KindText:
		r.drawText(pdf, region, m, scriptFamily, tr)

	case KindLine:
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Line(region.Box.X, region.Box.Y, region.Box.X+region.Box.W, region.Box.Y)

	case KindRoundedRect:
		if region.Fill != nil {
			pdf.SetFillColor(region.Fill.R, region.Fill.G, region.Fill.B)
		}
		pdf.RoundedRect(region.Box.X, region.Box.Y, region.Box.W, region.Box.H, region.Radius, "1234", "F")

	case KindCircle:
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.Circle(region.Box.X+region.Box.W/2, region.Box.Y+region.Box.H/2, region.Radius, "D")

	case KindPhoto:
		r.drawPhoto(pdf, region, m, photo)

	case KindQR:
		r.drawQR(pdf, region, m)
	}
}

func (r *Renderer) drawText(pdf *gofpdf.Fpdf, region Region, m *models.Member, scriptFamily string, tr func(string) string) {
	content := region.Content(m, r.assets)
	if content == "" && region.Optional {
		return
	}
	if region.Upper {
		content = strings.ToUpper(content)
	}

	family := "Helvetica"
	if region.Script {
		family = scriptFamily
	}
	style := ""
	if region.Bold {
		style = "B"
	}
	pdf.SetFont(family, style, region.FontSize)

	if region.Color != nil {
		pdf.SetTextColor(region.Color.R, region.Color.G, region.Color.B)
	} else {
		pdf.SetTextColor(0, 0, 0)
	}

	// Core fonts need the cp1252 translator; a registered UTF-8 font takes
	// the string as is.
	text := content
	if family == "Helvetica" {
		text = tr(content)
	}

	x := region.Box.X
	if region.Centered {
		x -= pdf.GetStringWidth(text) / 2
	}
	pdf.Text(x, region.Box.Y, text)
}

// drawPhoto places the member photo aspect-fit inside its box. Degrades to
// an empty region on any decode problem.
func (r *Renderer) drawPhoto(pdf *gofpdf.Fpdf, region Region, m *models.Member, photo []byte) {
	if len(photo) == 0 {
		return
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		return
	}

	fit := FitBox(region.Box, float64(cfg.Width), float64(cfg.Height))
	opts := gofpdf.ImageOptions{ImageType: format, ReadDpi: false}
	name := "photo-" + m.Mobile
	if pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(photo)) == nil {
		// Unsupported or corrupt image data: blank region, clear the
		// sticky error so the rest of the card still renders.
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, fit.X, fit.Y, fit.W, fit.H, false, opts, 0, "")
}

func (r *Renderer) drawQR(pdf *gofpdf.Fpdf, region Region, m *models.Member) {
	if !r.assets.QREnabled {
		return
	}

	png, err := qrcode.Encode(r.assets.VerifyURL(m.Mobile), qrcode.Medium, 256)
	if err != nil {
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "png", ReadDpi: false}
	name := "qr-" + m.Mobile
	if pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png)) == nil {
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, region.Box.X, region.Box.Y, region.Box.W, region.Box.H, false, opts, 0, "")
}

// VerifyURL is the string encoded into the card's QR code. The key is the
// mobile number, matching what the verification endpoint expects back.
func (a *Assets) VerifyURL(mobile string) string {
	return a.VerifyBaseURL + "/verify/" + mobile
}
