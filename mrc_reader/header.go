// Package mrc_reader parses MRC/CCP4 volume headers and extracts z-slices.
//
// The header is a packed 1024-byte record. Fields are decoded one at a time
// from their fixed offsets; in-memory struct layout is never relied upon.
package mrc_reader

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	HeaderSize = 1024
	LabelSize  = 80
	MaxLabels  = 10
)

// Header is the fixed MRC2014 header.
type Header struct {
	NX, NY, NZ                int32
	Mode                      int32
	NXStart, NYStart, NZStart int32
	MX, MY, MZ                int32
	XLen, YLen, ZLen          float32
	Alpha, Beta, Gamma        float32
	MapC, MapR, MapS          int32
	DMin, DMax, DMean         float32
	ISpg                      int32
	NSymBT                    int32
	Extra                     [100]byte
	Origin                    [3]float32
	Map                       [4]byte
	MachSt                    [4]byte
	RMS                       float32
	NLabl                     int32
	Label                     [MaxLabels * LabelSize]byte
}

// fieldReader walks a byte slice with a fixed byte order. The caller checks
// the total length once up front.
type fieldReader struct {
	buf   []byte
	order binary.ByteOrder
	pos   int
}

func (r *fieldReader) int32() int32 {
	v := int32(r.order.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v
}

func (r *fieldReader) float32() float32 {
	v := math.Float32frombits(r.order.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v
}

func (r *fieldReader) bytes(dst []byte) {
	r.pos += copy(dst, r.buf[r.pos:r.pos+len(dst)])
}

// ParseHeader decodes the header at the start of data. Samples and header
// fields are read little-endian; the machine stamp is only reported.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderSize {
		return nil, ErrHeaderTooSmall
	}
	r := &fieldReader{buf: data[:HeaderSize], order: binary.LittleEndian}
	h := &Header{}

	h.NX, h.NY, h.NZ = r.int32(), r.int32(), r.int32()
	h.Mode = r.int32()
	h.NXStart, h.NYStart, h.NZStart = r.int32(), r.int32(), r.int32()
	h.MX, h.MY, h.MZ = r.int32(), r.int32(), r.int32()
	h.XLen, h.YLen, h.ZLen = r.float32(), r.float32(), r.float32()
	h.Alpha, h.Beta, h.Gamma = r.float32(), r.float32(), r.float32()
	h.MapC, h.MapR, h.MapS = r.int32(), r.int32(), r.int32()
	h.DMin, h.DMax, h.DMean = r.float32(), r.float32(), r.float32()
	h.ISpg = r.int32()
	h.NSymBT = r.int32()
	r.bytes(h.Extra[:])
	for i := range h.Origin {
		h.Origin[i] = r.float32()
	}
	r.bytes(h.Map[:])
	r.bytes(h.MachSt[:])
	h.RMS = r.float32()
	h.NLabl = r.int32()
	r.bytes(h.Label[:])

	if r.pos != HeaderSize {
		return nil, fmt.Errorf("MRC header layout consumed %d bytes, want %d", r.pos, HeaderSize)
	}
	if h.NX <= 0 || h.NY <= 0 || h.NZ < 0 {
		return nil, fmt.Errorf("%w: nx=%d ny=%d nz=%d", ErrInvalidHeader, h.NX, h.NY, h.NZ)
	}
	if h.NSymBT < 0 {
		return nil, fmt.Errorf("%w: negative extended header size %d", ErrInvalidHeader, h.NSymBT)
	}
	return h, nil
}

// DataOffset is where voxel data begins, after the extended header.
func (h *Header) DataOffset() int64 {
	return HeaderSize + int64(h.NSymBT)
}

// ExtType is the four character extended header type, e.g. "FEI1".
func (h *Header) ExtType() string {
	return trimLabel(h.Extra[8:12])
}

func (h *Header) NVersion() int32 {
	return int32(binary.LittleEndian.Uint32(h.Extra[12:16]))
}

// HasMapSignature reports whether the "MAP " identifier is present.
func (h *Header) HasMapSignature() bool {
	return string(h.Map[:3]) == "MAP"
}

// Labels returns the non-empty labels among the first NLabl slots, keyed by
// slot number.
func (h *Header) Labels() map[int]string {
	n := int(min(max(h.NLabl, 0), MaxLabels))
	labels := make(map[int]string, n)
	for i := range n {
		label := trimLabel(h.Label[i*LabelSize : (i+1)*LabelSize])
		if label != "" {
			labels[i] = label
		}
	}
	return labels
}
