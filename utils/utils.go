package utils

import (
	"fmt"

	"github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"

	"obscura/contracts"
)

const (
	DefaultTIFFDPI = 300.0
	DefaultMRCDPI  = 72.0
)

// GetTIFFDPI reads XResolution/YResolution from the first directory of a
// TIFF. The defaults are returned along with any error.
func GetTIFFDPI(data []byte) (float64, float64, error) {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return DefaultTIFFDPI, DefaultTIFFDPI, fmt.Errorf("EXIF not found: %v", err)
	}

	im := exifcommon.NewIfdMapping()
	ti := exif.NewTagIndex()
	if err := exifcommon.LoadStandardIfds(im); err != nil {
		return DefaultTIFFDPI, DefaultTIFFDPI, err
	}

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return DefaultTIFFDPI, DefaultTIFFDPI, err
	}

	dpiX := rationalTag(index.RootIfd, "XResolution", DefaultTIFFDPI)
	dpiY := rationalTag(index.RootIfd, "YResolution", dpiX)

	if tag, err := index.RootIfd.FindTagWithName("ResolutionUnit"); err == nil {
		if val, err := tag[0].Value(); err == nil {
			// 3 is centimetres
			if u, ok := val.([]uint16); ok && len(u) > 0 && u[0] == 3 {
				dpiX *= 2.54
				dpiY *= 2.54
			}
		}
	}

	return dpiX, dpiY, nil
}

func rationalTag(ifd *exif.Ifd, name string, fallback float64) float64 {
	tag, err := ifd.FindTagWithName(name)
	if err != nil {
		return fallback
	}
	val, err := tag[0].Value()
	if err != nil {
		return fallback
	}
	rats, ok := val.([]exifcommon.Rational)
	if !ok || len(rats) == 0 || rats[0].Denominator == 0 || rats[0].Numerator == 0 {
		return fallback
	}
	return float64(rats[0].Numerator) / float64(rats[0].Denominator)
}

// PageDPI picks the resolution used to size exported pages. MRC files carry
// no print resolution.
func PageDPI(format contracts.Format, data []byte) float64 {
	if format != contracts.FormatTIFF {
		return DefaultMRCDPI
	}
	dpi, _, err := GetTIFFDPI(data)
	if err != nil || dpi <= 0 {
		return DefaultTIFFDPI
	}
	return dpi
}
