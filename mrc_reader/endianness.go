package mrc_reader

import (
	"encoding/binary"
	"fmt"
	"strings"
)

type Endianness struct {
	code uint32
}

const (
	stampLittle    = 0x44440000
	stampLittleAlt = 0x44410000
	stampBig       = 0x11110000
)

// EndiannessOf classifies a machine stamp. The stamp bytes are read in file
// order, so the common 44 44 00 00 stamp yields 0x44440000.
func EndiannessOf(machst [4]byte) Endianness {
	return Endianness{code: binary.BigEndian.Uint32(machst[:])}
}

func (e Endianness) IsLittle() bool {
	return e.code == stampLittle || e.code == stampLittleAlt
}

func (e Endianness) IsBig() bool {
	return e.code == stampBig
}

func (e Endianness) String() string {
	switch {
	case e.IsLittle():
		return "Little"
	case e.IsBig():
		return "Big"
	default:
		return fmt.Sprintf("Unknown(0x%X)", e.code)
	}
}

func machStampHex(machst [4]byte) string {
	var sb strings.Builder
	for _, b := range machst {
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
