package mrc_reader

import (
	"encoding/binary"

	"obscura/normalizer"
)

// SliceSize is the number of bytes one z-slice occupies.
func (h *Header) SliceSize() (int64, error) {
	mode, err := ParseMode(h.Mode)
	if err != nil {
		return 0, err
	}
	return int64(h.NX) * int64(h.NY) * int64(mode.ByteSize()), nil
}

// ReadSlice returns the raw samples of slice index. The returned Data is a
// view into data; normalization copies it.
func ReadSlice(data []byte, h *Header, index int) (normalizer.RawFrame, error) {
	size, err := h.SliceSize()
	if err != nil {
		return normalizer.RawFrame{}, err
	}
	if index < 0 {
		return normalizer.RawFrame{}, &SliceOutOfBoundsError{Index: index}
	}

	start := h.DataOffset() + int64(index)*size
	end := start + size
	if start < 0 || end < start || end > int64(len(data)) {
		return normalizer.RawFrame{}, &SliceOutOfBoundsError{Index: index}
	}

	return normalizer.RawFrame{
		Width:  int(h.NX),
		Height: int(h.NY),
		Data:   data[start:end],
		Order:  binary.LittleEndian,
	}, nil
}
