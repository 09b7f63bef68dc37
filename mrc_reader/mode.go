package mrc_reader

import (
	"fmt"

	"obscura/normalizer"
)

// Mode is the MRC data type code stored at header offset 12.
type Mode int32

const (
	ModeInt8           Mode = 0
	ModeInt16          Mode = 1
	ModeFloat32        Mode = 2
	ModeInt16Complex   Mode = 3
	ModeFloat32Complex Mode = 4
	ModeUint8          Mode = 6
	ModeFloat16        Mode = 12
	ModePacked4Bit     Mode = 101
)

type modeInfo struct {
	name     string
	size     int
	encoding normalizer.Encoding
}

var modes = map[Mode]modeInfo{
	ModeInt8:           {"Int8", 1, normalizer.Int8},
	ModeInt16:          {"Int16", 2, normalizer.Int16},
	ModeFloat32:        {"Float32", 4, normalizer.Float32},
	ModeInt16Complex:   {"Int16Complex", 4, normalizer.Int16Complex},
	ModeFloat32Complex: {"Float32Complex", 8, normalizer.Float32Complex},
	ModeUint8:          {"Uint8", 1, normalizer.Uint8},
	ModeFloat16:        {"Float16", 2, normalizer.Float16},
	// two voxels per byte; byte size rounds up and the normalizer rejects it
	ModePacked4Bit: {"Packed4Bit", 1, "Packed4Bit"},
}

// ParseMode validates a raw header mode value.
func ParseMode(v int32) (Mode, error) {
	m := Mode(v)
	if _, ok := modes[m]; !ok {
		return 0, &UnknownModeError{Mode: v}
	}
	return m, nil
}

func (m Mode) String() string {
	if info, ok := modes[m]; ok {
		return info.name
	}
	return fmt.Sprintf("Mode(%d)", int32(m))
}

// ByteSize is the storage size of one voxel.
func (m Mode) ByteSize() int {
	return modes[m].size
}

// Encoding is the normalizer key for this mode's samples.
func (m Mode) Encoding() normalizer.Encoding {
	return modes[m].encoding
}
