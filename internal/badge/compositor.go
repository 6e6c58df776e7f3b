package badge

import (
	"fmt"
	"image"
	"image/color"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	canvasWidth  = 1080
	canvasHeight = 1080
	margin       = 40
	badgeSize    = 200

	// Photo is downscaled to at most this share of each canvas dimension.
	photoMaxFactor = 0.7

	disclaimerFontSize = 24
	disclaimerText     = "*Prices are subject to change at any time."
	disclaimerBottom   = 50

	watermarkScale  = 1.6
	watermarkMargin = 20

	defaultBadgeColor = "#FF0000"
)

var disclaimerGray = color.RGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff}

// Request describes one badge render. It is constructed per call and has
// no persisted identity.
type Request struct {
	PhotoPath   string
	PriceText   string
	Shape       Shape
	Color       string
	IncludeLink bool

	// OutputPath defaults to <PhotoPath-without-ext>_final.jpg.
	OutputPath string
}

// Options configure a Composer. Font and watermark paths may point at
// missing files; those degrade silently.
type Options struct {
	PriceFontPath      string
	DisclaimerFontPath string
	WatermarkPath      string
}

// Composer places the product photo, badge, price text, disclaimer and an
// optional link watermark onto a fixed-size canvas.
type Composer struct {
	priceFace      font.Face
	priceSmallFace font.Face
	disclaimerFace font.Face
	watermarkPath  string
	httpClient     *http.Client
}

func NewComposer(opts Options) *Composer {
	return &Composer{
		priceFace:      loadFace(opts.PriceFontPath, priceFontSize),
		priceSmallFace: loadFace(opts.PriceFontPath, priceTwoLineFontSize),
		disclaimerFace: loadFace(opts.DisclaimerFontPath, disclaimerFontSize),
		watermarkPath:  opts.WatermarkPath,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Compose renders the request and returns the absolute path of the written
// file. A missing or unreadable photo is the only fatal failure.
func (c *Composer) Compose(req Request) (string, error) {
	photo, err := c.loadPhoto(req.PhotoPath)
	if err != nil {
		return "", err
	}

	canvas := imaging.New(canvasWidth, canvasHeight, color.White)

	product := imaging.Fit(photo,
		int(canvasWidth*photoMaxFactor),
		int(canvasHeight*photoMaxFactor),
		imaging.Lanczos)
	px := (canvasWidth - product.Bounds().Dx()) / 2
	py := (canvasHeight - product.Bounds().Dy()) / 2
	canvas = imaging.Paste(canvas, product, image.Pt(px, py))

	dc := gg.NewContextForImage(canvas)

	bx := float64(canvasWidth - badgeSize - margin)
	by := float64(margin)

	fill, ok := parseHexColor(req.Color)
	if !ok {
		fill, _ = parseHexColor(defaultBadgeColor)
	}
	drawShape(dc, req.Shape, bx, by, badgeSize, fill)

	c.drawPriceText(dc, req.PriceText, bx, by, contrastColor(req.Color))
	c.drawDisclaimer(dc)

	result := imaging.Clone(dc.Image())
	if req.IncludeLink {
		result = c.overlayWatermark(result)
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		base := strings.TrimSuffix(req.PhotoPath, filepath.Ext(req.PhotoPath))
		outputPath = base + "_final.jpg"
	}

	if err := imaging.Save(result, outputPath); err != nil {
		return "", fmt.Errorf("save composed image: %w", err)
	}

	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return outputPath, nil
	}
	return abs, nil
}

// loadPhoto reads the product photo from a local path or downloads it when
// the path is an http(s) URL.
func (c *Composer) loadPhoto(path string) (image.Image, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		resp, err := c.httpClient.Get(path)
		if err != nil {
			return nil, fmt.Errorf("download photo: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("download photo: unexpected status %d", resp.StatusCode)
		}

		img, err := imaging.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode photo: %w", err)
		}
		return img, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open photo: %w", err)
	}
	return img, nil
}

// drawPriceText wraps and centers the price inside the badge region. The
// larger face is tried first; two lines at that size switch to the smaller
// face.
func (c *Composer) drawPriceText(dc *gg.Context, text string, bx, by float64, textColor color.Color) {
	if strings.TrimSpace(text) == "" {
		return
	}

	maxWidth := float64(badgeSize) * priceMaxWidthFactor

	measure := func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}

	measureLarge := func(s string) float64 {
		dc.SetFontFace(c.priceFace)
		return measure(s)
	}
	measureSmall := func(s string) float64 {
		dc.SetFontFace(c.priceSmallFace)
		return measure(s)
	}

	useSmall, lines := selectPriceLines(measureLarge, measureSmall, text, maxWidth)
	if useSmall {
		dc.SetFontFace(c.priceSmallFace)
	} else {
		dc.SetFontFace(c.priceFace)
	}

	_, lineHeight := dc.MeasureString("Ag")
	totalHeight := float64(len(lines))*lineHeight + float64(len(lines)-1)*lineSpacing

	cx := bx + badgeSize/2
	y := by + (badgeSize-totalHeight)/2 + lineHeight/2

	dc.SetColor(textColor)
	for _, line := range lines {
		dc.DrawStringAnchored(line, cx, y, 0.5, 0.5)
		y += lineHeight + lineSpacing
	}
}

func (c *Composer) drawDisclaimer(dc *gg.Context) {
	dc.SetFontFace(c.disclaimerFace)
	dc.SetColor(disclaimerGray)
	dc.DrawStringAnchored(disclaimerText,
		canvasWidth-margin, canvasHeight-disclaimerBottom, 1, 0.5)
}

// overlayWatermark alpha-composites the link watermark bottom-left, scaled
// from its native size. A missing asset degrades silently.
func (c *Composer) overlayWatermark(canvas *image.NRGBA) *image.NRGBA {
	if c.watermarkPath == "" {
		return canvas
	}

	wm, err := imaging.Open(c.watermarkPath)
	if err != nil {
		return canvas
	}

	w := int(float64(wm.Bounds().Dx()) * watermarkScale)
	h := int(float64(wm.Bounds().Dy()) * watermarkScale)
	wm = imaging.Resize(wm, w, h, imaging.Lanczos)

	pos := image.Pt(watermarkMargin, canvasHeight-h-watermarkMargin)
	return imaging.Overlay(canvas, wm, pos, 1.0)
}
