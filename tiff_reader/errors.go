package tiff_reader

import (
	"errors"
	"fmt"
)

var (
	ErrNotTIFF      = errors.New("not a TIFF file")
	ErrInvalidIFD   = errors.New("invalid TIFF directory")
	ErrNoMoreImages = errors.New("no more images")
)

type MissingTagError struct {
	Tag string
}

func (e *MissingTagError) Error() string {
	return fmt.Sprintf("required tag %s is missing", e.Tag)
}
