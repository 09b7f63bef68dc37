package contracts

type Converter interface {
	Convert(data []byte) (*Output, error)
}

// FrameEncoder turns a canonical 8-bit frame into a lossless image file.
type FrameEncoder interface {
	Encode(frame *CanonicalFrame) ([]byte, error)
}

type ColorModel int

const (
	Grayscale ColorModel = iota
	RGB
	RGBA
)

func (m ColorModel) Channels() int {
	switch m {
	case RGB:
		return 3
	case RGBA:
		return 4
	default:
		return 1
	}
}

func (m ColorModel) String() string {
	switch m {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return "Grayscale"
	}
}

// ImageInfo describes where a frame came from. ColorType and BitDepth name
// the source encoding, not the canonical one.
type ImageInfo struct {
	ImageIndex int         `json:"image_index" cbor:"image_index"`
	Width      int         `json:"width" cbor:"width"`
	Height     int         `json:"height" cbor:"height"`
	ColorType  string      `json:"color_type" cbor:"color_type"`
	BitDepth   int         `json:"bit_depth" cbor:"bit_depth"`
	Metadata   MetadataMap `json:"metadata" cbor:"metadata"`
}

type CanonicalFrame struct {
	Width  int
	Height int
	Model  ColorModel
	Pix    []byte
	Info   ImageInfo
}

type DecodeError struct {
	ImageIndex int    `json:"image_index" cbor:"image_index"`
	Message    string `json:"message" cbor:"message"`
}

func (e DecodeError) Error() string {
	return e.Message
}

type DecodeResult struct {
	Images   []*CanonicalFrame
	Errors   []DecodeError
	Metadata MetadataMap
}

// Attempts is the number of frames the decoder tried, successful or not.
func (r *DecodeResult) Attempts() int {
	return len(r.Images) + len(r.Errors)
}

type Image struct {
	PNGData []byte    `json:"png_data" cbor:"png_data"`
	Info    ImageInfo `json:"info" cbor:"info"`
}

type Output struct {
	Images      []Image       `json:"images" cbor:"images"`
	Errors      []DecodeError `json:"errors" cbor:"errors"`
	TotalImages int           `json:"total_images" cbor:"total_images"`
	Metadata    MetadataMap   `json:"metadata" cbor:"metadata"`
}
