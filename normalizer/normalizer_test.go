package normalizer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/x448/float16"

	"obscura/contracts"
)

func float32Bytes(values ...float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

func TestFlatFloatFrame(t *testing.T) {
	raw := RawFrame{Width: 3, Height: 2, Data: float32Bytes(4.5, 4.5, 4.5, 4.5, 4.5, 4.5)}

	res, err := Normalize(contracts.FormatMRC, Float32, raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i, b := range res.Pix {
		if b != 128 {
			t.Fatalf("pixel %d = %d, want 128", i, b)
		}
	}
	if !res.Range.Flat || !res.Range.Scaled {
		t.Errorf("expected flat scaled range, got %+v", res.Range)
	}
	if res.Range.Min != 4.5 || res.Range.Max != 4.5 {
		t.Errorf("range = [%v, %v], want [4.5, 4.5]", res.Range.Min, res.Range.Max)
	}
}

func TestFloatRangeEndpoints(t *testing.T) {
	raw := RawFrame{Width: 4, Height: 1, Data: float32Bytes(-2, 0.5, 3, 8)}

	res, err := Normalize(contracts.FormatMRC, Float32, raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if res.Pix[0] != 0 {
		t.Errorf("min sample mapped to %d, want 0", res.Pix[0])
	}
	if res.Pix[3] != 255 {
		t.Errorf("max sample mapped to %d, want 255", res.Pix[3])
	}
	// (3 - -2) / 10 * 255 = 127.5
	if res.Pix[2] != 127 {
		t.Errorf("mid sample mapped to %d, want 127", res.Pix[2])
	}
	if res.Range.Min != -2 || res.Range.Max != 8 || res.Range.Flat {
		t.Errorf("unexpected range %+v", res.Range)
	}
}

func TestFloatNaNIgnored(t *testing.T) {
	nan := float32(math.NaN())
	raw := RawFrame{Width: 3, Height: 1, Data: float32Bytes(1, nan, 3)}

	res, err := Normalize(contracts.FormatMRC, Float32, raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := []byte{0, 0, 255}
	if !bytes.Equal(res.Pix, want) {
		t.Errorf("got %v, want %v", res.Pix, want)
	}
	if res.Range.Min != 1 || res.Range.Max != 3 {
		t.Errorf("unexpected range %+v", res.Range)
	}
}

func TestFloat16(t *testing.T) {
	data := make([]byte, 6)
	for i, v := range []float32{-1, 0, 1} {
		binary.LittleEndian.PutUint16(data[i*2:], float16.Fromfloat32(v).Bits())
	}

	res, err := Normalize(contracts.FormatMRC, Float16, RawFrame{Width: 3, Height: 1, Data: data})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	want := []byte{0, 127, 255}
	if !bytes.Equal(res.Pix, want) {
		t.Errorf("got %v, want %v", res.Pix, want)
	}
}

func TestComplexMagnitude(t *testing.T) {
	t.Run("int16", func(t *testing.T) {
		data := make([]byte, 8)
		binary.LittleEndian.PutUint16(data[0:], uint16(0))
		binary.LittleEndian.PutUint16(data[2:], uint16(0))
		binary.LittleEndian.PutUint16(data[4:], uint16(3))
		v := int16(-4)
		binary.LittleEndian.PutUint16(data[6:], uint16(v))

		res, err := Normalize(contracts.FormatMRC, Int16Complex, RawFrame{Width: 2, Height: 1, Data: data})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if !bytes.Equal(res.Pix, []byte{0, 255}) {
			t.Errorf("got %v", res.Pix)
		}
		if res.Range.Max != 5 {
			t.Errorf("max magnitude = %v, want 5", res.Range.Max)
		}
	})

	t.Run("float32", func(t *testing.T) {
		data := float32Bytes(6, 8, 0, 1, 0, 0)
		res, err := Normalize(contracts.FormatMRC, Float32Complex, RawFrame{Width: 3, Height: 1, Data: data})
		if err != nil {
			t.Fatalf("Normalize failed: %v", err)
		}
		if res.Range.Min != 0 || res.Range.Max != 10 {
			t.Errorf("unexpected range %+v", res.Range)
		}
		// 1 / 10 * 255 = 25.5
		if !bytes.Equal(res.Pix, []byte{255, 25, 0}) {
			t.Errorf("got %v", res.Pix)
		}
	})
}

func TestIntegerModes(t *testing.T) {
	tests := []struct {
		name string
		enc  Encoding
		data []byte
		want []byte
		min  float64
		max  float64
	}{
		{"int8", Int8, []byte{0x80, 0xFF, 0x00, 0x7F}, []byte{0, 127, 128, 255}, -128, 127},
		{"uint8", Uint8, []byte{0, 17, 255, 3}, []byte{0, 17, 255, 3}, 0, 255},
		{"int16", Int16, []byte{0x00, 0x80, 0xFF, 0xFF, 0x00, 0x00, 0xFF, 0x7F}, []byte{0, 127, 128, 255}, -32768, 32767},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize(contracts.FormatMRC, tt.enc, RawFrame{Width: 2, Height: 2, Data: tt.data})
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if !bytes.Equal(res.Pix, tt.want) {
				t.Errorf("got %v, want %v", res.Pix, tt.want)
			}
			if res.Model != contracts.Grayscale {
				t.Errorf("model = %v, want Grayscale", res.Model)
			}
			if res.Range.Min != tt.min || res.Range.Max != tt.max || res.Range.Scaled {
				t.Errorf("unexpected range %+v", res.Range)
			}
		})
	}
}

func TestTIFFEncodings(t *testing.T) {
	be16 := func(values ...uint16) []byte {
		out := make([]byte, 2*len(values))
		for i, v := range values {
			binary.BigEndian.PutUint16(out[i*2:], v)
		}
		return out
	}

	tests := []struct {
		name  string
		enc   Encoding
		w, h  int
		data  []byte
		model contracts.ColorModel
		want  []byte
	}{
		{"gray1", Gray1, 4, 1, []byte{0, 1, 255, 0}, contracts.Grayscale, []byte{0, 255, 255, 0}},
		{"gray8", Gray8, 2, 1, []byte{9, 200}, contracts.Grayscale, []byte{9, 200}},
		{"rgb8", RGB8, 1, 1, []byte{1, 2, 3}, contracts.RGB, []byte{1, 2, 3}},
		{"rgba8", RGBA8, 1, 1, []byte{1, 2, 3, 4}, contracts.RGBA, []byte{1, 2, 3, 4}},
		{"gray16", Gray16, 3, 1, be16(0, 0x7F7F, 0xFFFF), contracts.Grayscale, []byte{0, 0x7F, 0xFF}},
		{"rgb16", RGB16, 1, 1, be16(0x0100, 0xFF80, 0x0080), contracts.RGB, []byte{1, 0xFF, 1}},
		{"rgba16", RGBA16, 1, 1, be16(0, 0x1000, 0xFFFE, 0x007F), contracts.RGBA, []byte{0, 0x10, 0xFF, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize(contracts.FormatTIFF, tt.enc, RawFrame{Width: tt.w, Height: tt.h, Data: tt.data, Order: binary.BigEndian})
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if res.Model != tt.model {
				t.Errorf("model = %v, want %v", res.Model, tt.model)
			}
			if !bytes.Equal(res.Pix, tt.want) {
				t.Errorf("got %v, want %v", res.Pix, tt.want)
			}
			if len(res.Pix) != tt.w*tt.h*tt.model.Channels() {
				t.Errorf("len = %d, want %d", len(res.Pix), tt.w*tt.h*tt.model.Channels())
			}
			if res.Range != nil {
				t.Errorf("TIFF frames should not report a range, got %+v", res.Range)
			}
		})
	}
}

func TestUnsupportedEncoding(t *testing.T) {
	tests := []struct {
		format contracts.Format
		enc    Encoding
		want   string
	}{
		{contracts.FormatTIFF, "CMYK(8)", "Unsupported TIFF color type: CMYK(8)"},
		{contracts.FormatMRC, "Packed4Bit", "Unsupported MRC mode: Packed4Bit"},
		{contracts.FormatMRC, Gray8, "Unsupported MRC mode: Gray(8)"},
	}

	for _, tt := range tests {
		_, err := Normalize(tt.format, tt.enc, RawFrame{Width: 1, Height: 1, Data: []byte{0, 0, 0, 0}})
		var unsupported *UnsupportedEncodingError
		if !errors.As(err, &unsupported) {
			t.Fatalf("expected UnsupportedEncodingError, got %v", err)
		}
		if err.Error() != tt.want {
			t.Errorf("message = %q, want %q", err.Error(), tt.want)
		}
		if Supported(tt.format, tt.enc) {
			t.Errorf("Supported(%s, %s) = true", tt.format, tt.enc)
		}
	}
}

func TestShortBuffer(t *testing.T) {
	_, err := Normalize(contracts.FormatMRC, Float32, RawFrame{Width: 2, Height: 2, Data: float32Bytes(1, 2, 3)})
	if err == nil {
		t.Fatal("expected error for truncated sample buffer")
	}
}

func TestOutputDoesNotAliasInput(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	res, err := Normalize(contracts.FormatTIFF, Gray8, RawFrame{Width: 2, Height: 2, Data: data})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	data[0] = 99
	if res.Pix[0] != 1 {
		t.Error("canonical buffer shares memory with the raw buffer")
	}
}
