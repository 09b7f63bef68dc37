package tiff_reader

import (
	"encoding/binary"
	"errors"
	"io"
)

// pageReader serves the TIFF bytes unchanged except for the header's
// first-IFD pointer, which is replaced by the offset of one chosen page.
type pageReader struct {
	data   []byte
	header [8]byte
}

func newPageReader(data []byte, order binary.ByteOrder, offset uint32) *pageReader {
	r := &pageReader{data: data}
	copy(r.header[:], data)
	order.PutUint32(r.header[4:], offset)
	return r
}

func (r *pageReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("tiff_reader: negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n := copy(p, r.data[off:])
	for i := off; i < off+int64(n) && i < int64(len(r.header)); i++ {
		p[i-off] = r.header[i]
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
