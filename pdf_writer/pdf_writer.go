package pdf_writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"obscura/contracts"
)

const mmPerInch = 25.4

var ErrNoPages = errors.New("pdf has no pages")

// PDFWriter lays out one decoded frame per page, each page exactly the size
// of its image at the given resolution.
type PDFWriter struct {
	pdf   *gofpdf.Fpdf
	dst   io.Writer
	pages int
}

func NewPDFWriter(dst io.Writer) *PDFWriter {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm"})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &PDFWriter{pdf: pdf, dst: dst}
}

// PageSize converts pixel dimensions at dpi into millimetres.
func PageSize(width, height int, dpi float64) (float64, float64) {
	return float64(width) / dpi * mmPerInch, float64(height) / dpi * mmPerInch
}

// WriteImage adds a page holding the PNG of img.
func (pw *PDFWriter) WriteImage(img contracts.Image, dpi float64) error {
	if dpi <= 0 {
		return fmt.Errorf("invalid resolution %v dpi", dpi)
	}
	w, h := PageSize(img.Info.Width, img.Info.Height, dpi)

	imageID := fmt.Sprintf("img_%d", img.Info.ImageIndex)
	options := gofpdf.ImageOptions{
		ImageType: "PNG",
		ReadDpi:   false,
	}

	pw.pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	pw.pdf.RegisterImageOptionsReader(imageID, options, bytes.NewReader(img.PNGData))
	pw.pdf.ImageOptions(imageID, 0, 0, w, h, false, options, 0, "")
	if err := pw.pdf.Error(); err != nil {
		return fmt.Errorf("error adding image %d to PDF: %w", img.Info.ImageIndex, err)
	}
	pw.pages++
	return nil
}

func (pw *PDFWriter) Pages() int {
	return pw.pages
}

// Finish writes the document to the destination.
func (pw *PDFWriter) Finish() error {
	if pw.pages == 0 {
		return ErrNoPages
	}
	if err := pw.pdf.Output(pw.dst); err != nil {
		return fmt.Errorf("error writing PDF: %w", err)
	}
	return nil
}
