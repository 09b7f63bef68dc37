// Package testutil builds small TIFF and MRC containers in memory for tests.
package testutil

import (
	"encoding/binary"
	"math"

	"github.com/garyhouston/tiff66"
)

// Photometric interpretations used by the fixtures.
const (
	WhiteIsZero = 0
	BlackIsZero = 1
	RGB         = 2
	Separated   = 5
)

// TIFFPage describes one uncompressed, single-strip page.
type TIFFPage struct {
	Width, Height int
	Photometric   uint16
	BitsPerSample []uint16 // one entry per sample, defaults to {8}
	ExtraSamples  []uint16
	Data          []byte

	// StripOffset replaces the real strip offset when non-zero.
	StripOffset uint32
	// DPI adds XResolution/YResolution in pixels per inch when non-zero.
	DPI uint32
	// NextOffset is written as the next-IFD pointer of the last page.
	NextOffset uint32
}

type ifdEntry struct {
	tag    tiff66.Tag
	typ    tiff66.Type
	values []uint32
}

func (e ifdEntry) count() uint32 {
	if e.typ == tiff66.RATIONAL {
		return uint32(len(e.values) / 2)
	}
	return uint32(len(e.values))
}

func (e ifdEntry) payload(order binary.ByteOrder) []byte {
	size := int(e.typ.Size())
	if e.typ == tiff66.RATIONAL {
		size = 4
	}
	out := make([]byte, size*len(e.values))
	for i, v := range e.values {
		if e.typ == tiff66.SHORT {
			order.PutUint16(out[i*size:], uint16(v))
		} else {
			order.PutUint32(out[i*size:], v)
		}
	}
	return out
}

func shorts(vs ...uint16) []uint32 {
	out := make([]uint32, len(vs))
	for i, v := range vs {
		out[i] = uint32(v)
	}
	return out
}

// BuildTIFF lays out the pages one after another, each strip followed by
// its directory.
func BuildTIFF(order binary.ByteOrder, pages ...TIFFPage) []byte {
	buf := make([]byte, tiff66.HeaderSize)
	nextAt := -1

	for _, p := range pages {
		stripOffset := uint32(len(buf))
		buf = append(buf, p.Data...)
		if len(buf)%2 == 1 {
			buf = append(buf, 0)
		}
		if p.StripOffset != 0 {
			stripOffset = p.StripOffset
		}
		bps := p.BitsPerSample
		if len(bps) == 0 {
			bps = []uint16{8}
		}

		entries := []ifdEntry{
			{tiff66.ImageWidth, tiff66.LONG, []uint32{uint32(p.Width)}},
			{tiff66.ImageLength, tiff66.LONG, []uint32{uint32(p.Height)}},
			{tiff66.BitsPerSample, tiff66.SHORT, shorts(bps...)},
			{tiff66.Compression, tiff66.SHORT, []uint32{1}},
			{tiff66.PhotometricInterpretation, tiff66.SHORT, []uint32{uint32(p.Photometric)}},
			{tiff66.StripOffsets, tiff66.LONG, []uint32{stripOffset}},
			{tiff66.SamplesPerPixel, tiff66.SHORT, []uint32{uint32(len(bps))}},
			{tiff66.RowsPerStrip, tiff66.LONG, []uint32{uint32(p.Height)}},
			{tiff66.StripByteCounts, tiff66.LONG, []uint32{uint32(len(p.Data))}},
		}
		if p.DPI != 0 {
			entries = append(entries,
				ifdEntry{tiff66.XResolution, tiff66.RATIONAL, []uint32{p.DPI, 1}},
				ifdEntry{tiff66.YResolution, tiff66.RATIONAL, []uint32{p.DPI, 1}})
		}
		entries = append(entries, ifdEntry{tiff66.PlanarConfiguration, tiff66.SHORT, []uint32{1}})
		if p.DPI != 0 {
			entries = append(entries, ifdEntry{tiff66.ResolutionUnit, tiff66.SHORT, []uint32{2}})
		}
		if len(p.ExtraSamples) > 0 {
			entries = append(entries, ifdEntry{tiff66.ExtraSamples, tiff66.SHORT, shorts(p.ExtraSamples...)})
		}

		ifdPos := uint32(len(buf))
		if nextAt < 0 {
			tiff66.PutHeader(buf, order, ifdPos)
		} else {
			order.PutUint32(buf[nextAt:], ifdPos)
		}

		table := make([]byte, 2+12*len(entries)+4)
		var external []byte
		externalPos := ifdPos + uint32(len(table))
		order.PutUint16(table, uint16(len(entries)))
		for i, e := range entries {
			at := 2 + 12*i
			order.PutUint16(table[at:], uint16(e.tag))
			order.PutUint16(table[at+2:], uint16(e.typ))
			order.PutUint32(table[at+4:], e.count())
			data := e.payload(order)
			if len(data) <= 4 {
				copy(table[at+8:], data)
				continue
			}
			order.PutUint32(table[at+8:], externalPos+uint32(len(external)))
			external = append(external, data...)
		}
		nextAt = int(ifdPos) + 2 + 12*len(entries)
		order.PutUint32(table[nextAt-int(ifdPos):], p.NextOffset)

		buf = append(buf, table...)
		buf = append(buf, external...)
		if len(buf)%2 == 1 {
			buf = append(buf, 0)
		}
	}
	return buf
}

// MRCVolume describes a little-endian MRC2014 file.
type MRCVolume struct {
	NX, NY, NZ int32
	Mode       int32
	ExtHeader  []byte
	Labels     []string
	Data       []byte
}

// BuildMRC writes the header, the extended header and the voxel data.
func BuildMRC(v MRCVolume) []byte {
	h := make([]byte, 1024)
	le := binary.LittleEndian
	for i, n := range []int32{v.NX, v.NY, v.NZ, v.Mode, 0, 0, 0, v.NX, v.NY, v.NZ} {
		le.PutUint32(h[i*4:], uint32(n))
	}
	for i, f := range []float32{float32(v.NX), float32(v.NY), float32(v.NZ), 90, 90, 90} {
		le.PutUint32(h[40+i*4:], math.Float32bits(f))
	}
	le.PutUint32(h[64:], 1)
	le.PutUint32(h[68:], 2)
	le.PutUint32(h[72:], 3)
	le.PutUint32(h[92:], uint32(len(v.ExtHeader)))
	copy(h[104:], "MRCO")
	le.PutUint32(h[108:], 20140)
	copy(h[208:], "MAP ")
	copy(h[212:], []byte{0x44, 0x44, 0x00, 0x00})
	le.PutUint32(h[220:], uint32(len(v.Labels)))
	for i, label := range v.Labels {
		copy(h[224+i*80:224+(i+1)*80], label)
	}

	out := append(h, v.ExtHeader...)
	return append(out, v.Data...)
}

// Float32Samples encodes values little-endian.
func Float32Samples(values ...float32) []byte {
	out := make([]byte, 0, 4*len(values))
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}
