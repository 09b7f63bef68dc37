// Package normalizer maps source sample buffers onto canonical 8-bit
// Grayscale, RGB and RGBA rasters.
//
// Every supported (format, encoding) pair has one entry in a dispatch table;
// adding an encoding means adding a table entry.
package normalizer

import (
	"encoding/binary"
	"fmt"

	"obscura/contracts"
)

// Encoding names the native layout of a raw sample buffer. TIFF encodings
// are spelled as color type and bit depth, MRC encodings as the mode name.
type Encoding string

const (
	Gray1  Encoding = "Gray(1)"
	Gray8  Encoding = "Gray(8)"
	RGB8   Encoding = "RGB(8)"
	RGBA8  Encoding = "RGBA(8)"
	Gray16 Encoding = "Gray(16)"
	RGB16  Encoding = "RGB(16)"
	RGBA16 Encoding = "RGBA(16)"

	Int8           Encoding = "Int8"
	Int16          Encoding = "Int16"
	Float32        Encoding = "Float32"
	Int16Complex   Encoding = "Int16Complex"
	Float32Complex Encoding = "Float32Complex"
	Uint8          Encoding = "Uint8"
	Float16        Encoding = "Float16"
)

type Key struct {
	Format   contracts.Format
	Encoding Encoding
}

// RawFrame is the sample buffer of one frame. Multi-byte samples are stored
// in Order. Gray(1) frames carry one byte per pixel.
type RawFrame struct {
	Width  int
	Height int
	Data   []byte
	Order  binary.ByteOrder
}

// Range is the value range reported for a frame. Scaled is set when the
// bytes were produced by min–max normalization, Flat when that range was
// degenerate.
type Range struct {
	Min    float64
	Max    float64
	Scaled bool
	Flat   bool
}

type Result struct {
	Model contracts.ColorModel
	Pix   []byte
	Range *Range
}

type transform struct {
	pixelSize int
	model     contracts.ColorModel
	convert   func(data []byte, order binary.ByteOrder) ([]byte, *Range)
}

var table = map[Key]transform{
	{contracts.FormatTIFF, Gray1}:  {1, contracts.Grayscale, threshold},
	{contracts.FormatTIFF, Gray8}:  {1, contracts.Grayscale, copyBytes},
	{contracts.FormatTIFF, RGB8}:   {3, contracts.RGB, copyBytes},
	{contracts.FormatTIFF, RGBA8}:  {4, contracts.RGBA, copyBytes},
	{contracts.FormatTIFF, Gray16}: {2, contracts.Grayscale, downscale16},
	{contracts.FormatTIFF, RGB16}:  {6, contracts.RGB, downscale16},
	{contracts.FormatTIFF, RGBA16}: {8, contracts.RGBA, downscale16},

	{contracts.FormatMRC, Int8}:           {1, contracts.Grayscale, shiftInt8},
	{contracts.FormatMRC, Int16}:          {2, contracts.Grayscale, shiftInt16},
	{contracts.FormatMRC, Uint8}:          {1, contracts.Grayscale, copyUint8},
	{contracts.FormatMRC, Float32}:        {4, contracts.Grayscale, scaleFloat32},
	{contracts.FormatMRC, Float16}:        {2, contracts.Grayscale, scaleFloat16},
	{contracts.FormatMRC, Int16Complex}:   {4, contracts.Grayscale, scaleComplexInt16},
	{contracts.FormatMRC, Float32Complex}: {8, contracts.Grayscale, scaleComplexFloat32},
}

// Supported reports whether the pair has a table entry.
func Supported(format contracts.Format, enc Encoding) bool {
	_, ok := table[Key{format, enc}]
	return ok
}

// PixelSize returns the number of raw bytes one pixel occupies, or 0 for an
// unsupported pair.
func PixelSize(format contracts.Format, enc Encoding) int {
	return table[Key{format, enc}].pixelSize
}

// Normalize converts raw into a freshly allocated canonical buffer.
func Normalize(format contracts.Format, enc Encoding, raw RawFrame) (*Result, error) {
	t, ok := table[Key{format, enc}]
	if !ok {
		return nil, &UnsupportedEncodingError{Format: format, Encoding: enc}
	}
	if raw.Width <= 0 || raw.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", raw.Width, raw.Height)
	}
	want := raw.Width * raw.Height * t.pixelSize
	if want/t.pixelSize/raw.Width != raw.Height {
		return nil, fmt.Errorf("frame size %dx%d overflows", raw.Width, raw.Height)
	}
	if len(raw.Data) < want {
		return nil, fmt.Errorf("sample buffer holds %d bytes, %s %dx%d needs %d",
			len(raw.Data), enc, raw.Width, raw.Height, want)
	}
	order := raw.Order
	if order == nil {
		order = binary.LittleEndian
	}
	pix, rng := t.convert(raw.Data[:want], order)
	return &Result{Model: t.model, Pix: pix, Range: rng}, nil
}
