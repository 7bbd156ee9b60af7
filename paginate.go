package markvis

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	"github.com/jung-kurt/gofpdf"
	"github.com/oliamb/cutter"
)

// paginate slices a full-page raster into page-height strips and places
// each strip on its own A4 portrait page inside the layout margins. The
// raster width maps onto the printable width.
func paginate(raster []byte, layout PageLayout, title string) ([]byte, error) {
	img, err := jpeg.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding raster: %v", ErrPDFGeneration, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: empty raster", ErrPDFGeneration)
	}

	mmPerPx := layout.ContentWidthMM() / float64(width)
	pageHeightPx := int(math.Floor(layout.ContentHeightMM() / mmPerPx))
	if pageHeightPx < 1 {
		pageHeightPx = 1
	}

	margin := layout.MarginMM
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("markvis", true)

	imgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
	for page, y := 0, 0; y < height; page, y = page+1, y+pageHeightPx {
		stripHeight := min(pageHeightPx, height-y)

		strip, err := cutter.Crop(img, cutter.Config{
			Width:   width,
			Height:  stripHeight,
			Anchor:  image.Point{X: bounds.Min.X, Y: bounds.Min.Y + y},
			Mode:    cutter.TopLeft,
			Options: cutter.Copy,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: cropping page %d: %v", ErrPDFGeneration, page+1, err)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, strip, &jpeg.Options{Quality: layout.JPEGQuality}); err != nil {
			return nil, fmt.Errorf("%w: encoding page %d: %v", ErrPDFGeneration, page+1, err)
		}

		name := fmt.Sprintf("page-%d", page+1)
		pdf.RegisterImageOptionsReader(name, imgOpts, &buf)
		pdf.AddPage()
		pdf.ImageOptions(name, margin, margin, layout.ContentWidthMM(), float64(stripHeight)*mmPerPx, false, imgOpts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	return out.Bytes(), nil
}
