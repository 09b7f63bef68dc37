// Package tiff_reader walks the pages of a multi-page TIFF and decodes each
// page's pixels into a raw sample buffer.
//
// The page directory chain is parsed with tiff66, which keeps going past
// damaged fields. Pixels are decoded with golang.org/x/image/tiff, which only
// reads the first page of a file, so every page is presented to it as the
// first one.
package tiff_reader

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/garyhouston/tiff66"
	"golang.org/x/image/tiff"

	"obscura/normalizer"
)

type page struct {
	offset uint32
	node   *tiff66.IFDNode
}

// Decoder iterates over the pages of a TIFF held in memory. The zero value
// is not usable; call NewDecoder.
type Decoder struct {
	data       []byte
	order      binary.ByteOrder
	pages      []page
	index      int
	advanceErr error
}

// NewDecoder validates the header and reads the directory chain. A bad
// header or an unreadable first directory is an error; damage further down
// the chain is reported later by NextImage.
func NewDecoder(data []byte) (*Decoder, error) {
	ok, order, first := tiff66.GetHeader(data)
	if !ok {
		return nil, ErrNotTIFF
	}

	root, err := tiff66.GetIFDTree(data, order, first, tiff66.TIFFSpace)
	if root == nil || len(root.Fields) == 0 {
		if err == nil {
			err = fmt.Errorf("no fields")
		}
		return nil, fmt.Errorf("%w at offset %d: %v", ErrInvalidIFD, first, err)
	}

	d := &Decoder{data: data, order: order}
	d.walk(root, first)
	return d, nil
}

// walk records every reachable page and, if the chain breaks, the reason.
func (d *Decoder) walk(node *tiff66.IFDNode, pos uint32) {
	seen := make(map[uint32]bool)
	for {
		d.pages = append(d.pages, page{offset: pos, node: node})
		seen[pos] = true

		next, ok := nextIFDOffset(d.data, d.order, pos)
		if !ok || next == 0 {
			return
		}
		switch {
		case int64(next) >= int64(len(d.data)):
			d.advanceErr = fmt.Errorf("next IFD offset %d is past end of input (%d bytes)", next, len(d.data))
			return
		case seen[next]:
			d.advanceErr = fmt.Errorf("IFD cycle detected at offset %d", next)
			return
		case node.Next == nil || len(node.Next.Fields) == 0:
			d.advanceErr = fmt.Errorf("%w at offset %d", ErrInvalidIFD, next)
			return
		}
		node, pos = node.Next, next
	}
}

// nextIFDOffset reads the next pointer that follows the directory at pos.
// ok is false when the directory table itself does not fit in data.
func nextIFDOffset(data []byte, order binary.ByteOrder, pos uint32) (uint32, bool) {
	size := int64(len(data))
	if int64(pos)+2 > size {
		return 0, false
	}
	entries := int64(order.Uint16(data[pos:]))
	at := int64(pos) + 2 + 12*entries
	if at+4 > size {
		return 0, false
	}
	return order.Uint32(data[at:]), true
}

// Index is the zero-based position of the current page.
func (d *Decoder) Index() int {
	return d.index
}

func (d *Decoder) current() *tiff66.IFDNode {
	return d.pages[d.index].node
}

// Dimensions returns the current page's width and height.
func (d *Decoder) Dimensions() (int, int, error) {
	w, ok := firstInt(d.current(), tiff66.ImageWidth, d.order)
	if !ok {
		return 0, 0, &MissingTagError{Tag: "ImageWidth"}
	}
	h, ok := firstInt(d.current(), tiff66.ImageLength, d.order)
	if !ok {
		return 0, 0, &MissingTagError{Tag: "ImageLength"}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	return int(w), int(h), nil
}

func (d *Decoder) ColorType() (ColorType, error) {
	return colorTypeOf(d.current(), d.order)
}

// MoreImages reports whether NextImage has anything to do: either another
// page or the error that stopped the directory walk.
func (d *Decoder) MoreImages() bool {
	return d.index+1 < len(d.pages) || d.advanceErr != nil
}

// NextImage moves to the following page.
func (d *Decoder) NextImage() error {
	if d.index+1 < len(d.pages) {
		d.index++
		return nil
	}
	if err := d.advanceErr; err != nil {
		d.advanceErr = nil
		return err
	}
	return ErrNoMoreImages
}

// ReadImage decodes the current page. The sample layout of the returned
// frame matches ColorType: one byte per pixel for Gray(1), interleaved
// samples otherwise, with 16-bit samples in big-endian order. Gray samples
// are returned as stored, so WhiteIsZero pages are not inverted.
func (d *Decoder) ReadImage() (normalizer.RawFrame, error) {
	ct, err := d.ColorType()
	if err != nil {
		return normalizer.RawFrame{}, err
	}

	src := newPageReader(d.data, d.order, d.pages[d.index].offset)
	img, err := tiff.Decode(io.NewSectionReader(src, 0, int64(len(d.data))))
	if err != nil {
		return normalizer.RawFrame{}, fmt.Errorf("decoding page %d: %w", d.index, err)
	}
	return rawFrame(img, ct)
}

func rawFrame(img image.Image, ct ColorType) (normalizer.RawFrame, error) {
	b := img.Bounds()
	frame := normalizer.RawFrame{Width: b.Dx(), Height: b.Dy(), Order: binary.BigEndian}

	keep := 3
	if ct.hasAlpha() {
		keep = 4
	}
	switch m := img.(type) {
	case *image.Gray:
		frame.Data = pack(m.Pix, m.Stride, b, 1, 1)
		if ct.whiteIsZero {
			invert(frame.Data)
		}
	case *image.Gray16:
		frame.Data = pack(m.Pix, m.Stride, b, 2, 2)
		if ct.whiteIsZero {
			invert(frame.Data)
		}
	case *image.RGBA:
		frame.Data = pack(m.Pix, m.Stride, b, 4, keep)
	case *image.NRGBA:
		frame.Data = pack(m.Pix, m.Stride, b, 4, keep)
	case *image.RGBA64:
		frame.Data = pack(m.Pix, m.Stride, b, 8, keep*2)
	case *image.NRGBA64:
		frame.Data = pack(m.Pix, m.Stride, b, 8, keep*2)
	default:
		return normalizer.RawFrame{}, fmt.Errorf("unexpected decoded image type %T for %s", img, ct)
	}
	return frame, nil
}

// pack copies the first keep bytes of every src-byte pixel into a tight
// buffer, dropping row padding.
func pack(pix []byte, stride int, r image.Rectangle, src, keep int) []byte {
	w, h := r.Dx(), r.Dy()
	out := make([]byte, 0, w*h*keep)
	for y := range h {
		row := pix[y*stride:]
		for x := range w {
			out = append(out, row[x*src:x*src+keep]...)
		}
	}
	return out
}

// invert undoes the WhiteIsZero flip applied by the pixel decoder. Flipping
// both bytes of a big-endian 16-bit sample gives 0xFFFF-v.
func invert(data []byte) {
	for i, v := range data {
		data[i] = 0xFF - v
	}
}
