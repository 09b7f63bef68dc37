package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"obscura/contracts"
)

// PNGEncoder writes canonical frames as 8-bit PNG, favouring speed over
// size.
type PNGEncoder struct {
	Level png.CompressionLevel
}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{Level: png.BestSpeed}
}

func (e *PNGEncoder) Encode(frame *contracts.CanonicalFrame) ([]byte, error) {
	img, err := FrameImage(frame)
	if err != nil {
		return nil, err
	}
	enc := png.Encoder{CompressionLevel: e.Level}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// FrameImage wraps a canonical frame in an image.Image. Grayscale and RGBA
// frames share the frame's buffer; RGB frames are expanded to opaque NRGBA.
func FrameImage(frame *contracts.CanonicalFrame) (image.Image, error) {
	w, h := frame.Width, frame.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", w, h)
	}
	channels := frame.Model.Channels()
	if len(frame.Pix) != w*h*channels {
		return nil, fmt.Errorf("%s frame %dx%d has %d bytes, want %d",
			frame.Model, w, h, len(frame.Pix), w*h*channels)
	}

	rect := image.Rect(0, 0, w, h)
	switch frame.Model {
	case contracts.Grayscale:
		return &image.Gray{Pix: frame.Pix, Stride: w, Rect: rect}, nil
	case contracts.RGBA:
		return &image.NRGBA{Pix: frame.Pix, Stride: w * 4, Rect: rect}, nil
	case contracts.RGB:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(frame.Pix); i, j = i+3, j+4 {
			copy(img.Pix[j:j+3], frame.Pix[i:i+3])
			img.Pix[j+3] = 0xFF
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unknown color model %d", frame.Model)
	}
}
