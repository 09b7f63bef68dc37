package normalizer

import (
	"encoding/binary"
	"math"

	"github.com/x448/float16"
)

// flatValue is written for every pixel of a frame whose samples are all equal.
const flatValue = 128

func threshold(data []byte, _ binary.ByteOrder) ([]byte, *Range) {
	out := make([]byte, len(data))
	for i, b := range data {
		if b != 0 {
			out[i] = 255
		}
	}
	return out, nil
}

func copyBytes(data []byte, _ binary.ByteOrder) ([]byte, *Range) {
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// to8 rounds a 16-bit sample to 8 bits, saturating at the top of the range.
func to8(v uint16) byte {
	if v > math.MaxUint16-128 {
		return 255
	}
	return byte((v + 128) >> 8)
}

func downscale16(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	out := make([]byte, len(data)/2)
	for i := range out {
		out[i] = to8(order.Uint16(data[i*2 : i*2+2]))
	}
	return out, nil
}

func shiftInt8(data []byte, _ binary.ByteOrder) ([]byte, *Range) {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = byte(int16(int8(b)) + 128)
	}
	return out, &Range{Min: math.MinInt8, Max: math.MaxInt8}
}

func shiftInt16(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	out := make([]byte, len(data)/2)
	for i := range out {
		v := int16(order.Uint16(data[i*2 : i*2+2]))
		out[i] = byte((int32(v) + 32768) / 256)
	}
	return out, &Range{Min: math.MinInt16, Max: math.MaxInt16}
}

func copyUint8(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	out, _ := copyBytes(data, order)
	return out, &Range{Min: 0, Max: math.MaxUint8}
}

func scaleFloat32(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(order.Uint32(data[i*4 : i*4+4]))
	}
	return minMax(values)
}

func scaleFloat16(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	values := make([]float32, len(data)/2)
	for i := range values {
		values[i] = float16.Frombits(order.Uint16(data[i*2 : i*2+2])).Float32()
	}
	return minMax(values)
}

func scaleComplexInt16(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	values := make([]float32, len(data)/4)
	for i := range values {
		re := float32(int16(order.Uint16(data[i*4 : i*4+2])))
		im := float32(int16(order.Uint16(data[i*4+2 : i*4+4])))
		values[i] = magnitude(re, im)
	}
	return minMax(values)
}

func scaleComplexFloat32(data []byte, order binary.ByteOrder) ([]byte, *Range) {
	values := make([]float32, len(data)/8)
	for i := range values {
		re := math.Float32frombits(order.Uint32(data[i*8 : i*8+4]))
		im := math.Float32frombits(order.Uint32(data[i*8+4 : i*8+8]))
		values[i] = magnitude(re, im)
	}
	return minMax(values)
}

func magnitude(re, im float32) float32 {
	return float32(math.Sqrt(float64(re*re + im*im)))
}

// minMax remaps values linearly from their observed [min, max] onto
// [0, 255]. NaN samples are left out of the range and written as 0.
func minMax(values []float32) ([]byte, *Range) {
	lo := float32(math.Inf(1))
	hi := float32(math.Inf(-1))
	for _, v := range values {
		if v != v {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]byte, len(values))
	if lo > hi {
		// nothing but NaN
		for i := range out {
			out[i] = flatValue
		}
		return out, &Range{Scaled: true, Flat: true}
	}

	span := hi - lo
	if span == 0 || span != span {
		for i := range out {
			out[i] = flatValue
		}
		return out, &Range{Min: float64(lo), Max: float64(hi), Scaled: true, Flat: true}
	}

	for i, v := range values {
		out[i] = clampByte((v - lo) / span * 255)
	}
	return out, &Range{Min: float64(lo), Max: float64(hi), Scaled: true}
}

func clampByte(v float32) byte {
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}
