package converter

import (
	"errors"
	"fmt"

	"obscura/contracts"
	"obscura/mrc_reader"
	"obscura/normalizer"
	"obscura/tiff_reader"
)

var ErrUnknownFormat = errors.New("unrecognized image container: expected TIFF or MRC")

// Sniff identifies the container held in data.
func Sniff(data []byte) (contracts.Format, error) {
	if len(data) >= 4 {
		magic := string(data[:4])
		if magic == "II*\x00" || magic == "MM\x00*" {
			return contracts.FormatTIFF, nil
		}
	}
	if len(data) >= mrc_reader.HeaderSize {
		h, err := mrc_reader.ParseHeader(data)
		if err == nil && h.HasMapSignature() {
			return contracts.FormatMRC, nil
		}
		// older CCP4 files carry no signature; accept a header whose first
		// slice fits in the buffer
		if err == nil {
			if size, err := h.SliceSize(); err == nil && h.DataOffset()+size <= int64(len(data)) {
				return contracts.FormatMRC, nil
			}
		}
	}
	return "", ErrUnknownFormat
}

// Decode sniffs the container and decodes every frame in it.
func Decode(data []byte) (*contracts.DecodeResult, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	return DecodeFormat(format, data)
}

func DecodeFormat(format contracts.Format, data []byte) (*contracts.DecodeResult, error) {
	switch format {
	case contracts.FormatTIFF:
		return DecodeTIFF(data)
	case contracts.FormatMRC:
		return DecodeMRC(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeTIFF decodes every page. Only an unreadable header or first
// directory fails the call; page failures are collected in the result.
func DecodeTIFF(data []byte) (*contracts.DecodeResult, error) {
	d, err := tiff_reader.NewDecoder(data)
	if err != nil {
		return nil, err
	}

	res := &contracts.DecodeResult{}
	index := 0
	for {
		frame, err := decodePage(d, index)
		if err != nil {
			res.Errors = append(res.Errors, contracts.DecodeError{ImageIndex: index, Message: err.Error()})
		} else {
			res.Images = append(res.Images, frame)
		}
		index++

		if !d.MoreImages() {
			break
		}
		if err := d.NextImage(); err != nil {
			res.Errors = append(res.Errors, contracts.DecodeError{
				ImageIndex: index,
				Message:    fmt.Sprintf("Failed to move to next image: %v", err),
			})
			break
		}
	}
	return res, nil
}

func decodePage(d *tiff_reader.Decoder, index int) (*contracts.CanonicalFrame, error) {
	width, height, err := d.Dimensions()
	if err != nil {
		return nil, err
	}
	ct, err := d.ColorType()
	if err != nil {
		return nil, err
	}
	if !normalizer.Supported(contracts.FormatTIFF, ct.Encoding()) {
		return nil, &normalizer.UnsupportedEncodingError{Format: contracts.FormatTIFF, Encoding: ct.Encoding()}
	}

	raw, err := d.ReadImage()
	if err != nil {
		return nil, err
	}
	if raw.Width != width || raw.Height != height {
		return nil, fmt.Errorf("decoded page is %dx%d, directory says %dx%d", raw.Width, raw.Height, width, height)
	}
	norm, err := normalizer.Normalize(contracts.FormatTIFF, ct.Encoding(), raw)
	if err != nil {
		return nil, err
	}

	return &contracts.CanonicalFrame{
		Width:  width,
		Height: height,
		Model:  norm.Model,
		Pix:    norm.Pix,
		Info: contracts.ImageInfo{
			ImageIndex: index,
			Width:      width,
			Height:     height,
			ColorType:  ct.Label(),
			BitDepth:   ct.Depth,
		},
	}, nil
}

// DecodeMRC decodes every z-slice. Header problems fail the call; slice
// failures are collected in the result.
func DecodeMRC(data []byte) (*contracts.DecodeResult, error) {
	h, err := mrc_reader.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	res := &contracts.DecodeResult{Metadata: h.Metadata()}
	for z := range int(h.NZ) {
		frame, err := decodeSlice(data, h, z)
		if err != nil {
			res.Errors = append(res.Errors, contracts.DecodeError{
				ImageIndex: z,
				Message:    fmt.Sprintf("Failed to decode slice %d: %v", z, err),
			})
			continue
		}
		res.Images = append(res.Images, frame)
	}
	return res, nil
}

func decodeSlice(data []byte, h *mrc_reader.Header, z int) (*contracts.CanonicalFrame, error) {
	mode, err := mrc_reader.ParseMode(h.Mode)
	if err != nil {
		return nil, err
	}
	enc := mode.Encoding()
	if !normalizer.Supported(contracts.FormatMRC, enc) {
		return nil, &normalizer.UnsupportedEncodingError{Format: contracts.FormatMRC, Encoding: enc}
	}

	raw, err := mrc_reader.ReadSlice(data, h, z)
	if err != nil {
		return nil, err
	}
	norm, err := normalizer.Normalize(contracts.FormatMRC, enc, raw)
	if err != nil {
		return nil, err
	}

	md := contracts.MetadataMap{
		"min_value": contracts.Number(norm.Range.Min),
		"max_value": contracts.Number(norm.Range.Max),
	}
	if norm.Range.Scaled {
		md["flat_range"] = contracts.Boolean(norm.Range.Flat)
	}

	return &contracts.CanonicalFrame{
		Width:  raw.Width,
		Height: raw.Height,
		Model:  norm.Model,
		Pix:    norm.Pix,
		Info: contracts.ImageInfo{
			ImageIndex: z,
			Width:      raw.Width,
			Height:     raw.Height,
			ColorType:  mode.String(),
			BitDepth:   8,
			Metadata:   md,
		},
	}, nil
}
