package tiff_reader

import (
	"encoding/binary"
	"fmt"

	"github.com/garyhouston/tiff66"

	"obscura/normalizer"
)

type ColorKind int

const (
	Gray ColorKind = iota
	GrayA
	RGB
	RGBA
	CMYK
	CMYKA
	YCbCr
	Palette
	Multiband
)

var colorKindNames = map[ColorKind]string{
	Gray:      "Gray",
	GrayA:     "GrayA",
	RGB:       "RGB",
	RGBA:      "RGBA",
	CMYK:      "CMYK",
	CMYKA:     "CMYKA",
	YCbCr:     "YCbCr",
	Palette:   "Palette",
	Multiband: "Multiband",
}

// ColorType is a page's photometric layout together with its sample depth.
type ColorType struct {
	Kind    ColorKind
	Depth   int
	Samples int

	// whiteIsZero marks gray pages stored with 0 as white.
	whiteIsZero bool
}

// String spells the type the way error messages and the normalizer expect,
// e.g. "Gray(8)" or "CMYK(8)".
func (c ColorType) String() string {
	if c.Kind == Multiband {
		return fmt.Sprintf("Multiband%d(%d)", c.Samples, c.Depth)
	}
	return fmt.Sprintf("%s(%d)", colorKindNames[c.Kind], c.Depth)
}

// Label is the human readable color type reported in frame info.
func (c ColorType) Label() string {
	switch c.Kind {
	case Gray:
		return "Grayscale"
	case GrayA:
		return "GrayscaleAlpha"
	case Multiband:
		return fmt.Sprintf("Multiband%d", c.Samples)
	default:
		return colorKindNames[c.Kind]
	}
}

func (c ColorType) Encoding() normalizer.Encoding {
	return normalizer.Encoding(c.String())
}

// hasAlpha reports whether the last sample of each pixel is alpha.
func (c ColorType) hasAlpha() bool {
	return c.Kind == GrayA || c.Kind == RGBA || c.Kind == CMYKA
}

const (
	photometricWhiteIsZero = 0
	photometricBlackIsZero = 1
	photometricRGB         = 2
	photometricPalette     = 3
	photometricSeparated   = 5
	photometricYCbCr       = 6
)

// colorTypeOf derives the color type from a page's directory fields.
func colorTypeOf(node *tiff66.IFDNode, order binary.ByteOrder) (ColorType, error) {
	photometric, ok := firstInt(node, tiff66.PhotometricInterpretation, order)
	if !ok {
		return ColorType{}, &MissingTagError{Tag: "PhotometricInterpretation"}
	}
	samples, ok := firstInt(node, tiff66.SamplesPerPixel, order)
	if !ok {
		samples = 1
	}

	depth := 1
	if bps := findField(node, tiff66.BitsPerSample); bps != nil && bps.Count > 0 {
		depth = int(bps.AnyInteger(0, order))
		for i := uint32(1); i < bps.Count; i++ {
			if int(bps.AnyInteger(i, order)) != depth {
				return ColorType{}, fmt.Errorf("mixed bits per sample are not supported")
			}
		}
	}

	ct := ColorType{Depth: depth, Samples: int(samples)}
	switch photometric {
	case photometricWhiteIsZero, photometricBlackIsZero:
		ct.whiteIsZero = photometric == photometricWhiteIsZero
		switch samples {
		case 1:
			ct.Kind = Gray
		case 2:
			ct.Kind = GrayA
		default:
			ct.Kind = Multiband
		}
	case photometricRGB:
		switch samples {
		case 3:
			ct.Kind = RGB
		case 4:
			// a fourth sample is only alpha when ExtraSamples says so
			if findField(node, tiff66.ExtraSamples) != nil {
				ct.Kind = RGBA
			} else {
				ct.Kind = Multiband
			}
		default:
			ct.Kind = Multiband
		}
	case photometricPalette:
		if samples != 1 {
			return ColorType{}, fmt.Errorf("palette image with %d samples per pixel", samples)
		}
		ct.Kind = Palette
	case photometricSeparated:
		switch samples {
		case 4:
			ct.Kind = CMYK
		case 5:
			ct.Kind = CMYKA
		default:
			ct.Kind = Multiband
		}
	case photometricYCbCr:
		if samples != 3 {
			return ColorType{}, fmt.Errorf("YCbCr image with %d samples per pixel", samples)
		}
		ct.Kind = YCbCr
	default:
		return ColorType{}, fmt.Errorf("unsupported photometric interpretation %d", photometric)
	}
	return ct, nil
}

func findField(node *tiff66.IFDNode, tag tiff66.Tag) *tiff66.Field {
	fields := node.FindFields([]tiff66.Tag{tag})
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}

func firstInt(node *tiff66.IFDNode, tag tiff66.Tag, order binary.ByteOrder) (int64, bool) {
	f := findField(node, tag)
	if f == nil || f.Count == 0 || !f.Type.IsIntegral() {
		return 0, false
	}
	return f.AnyInteger(0, order), true
}
