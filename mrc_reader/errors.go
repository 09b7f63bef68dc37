package mrc_reader

import (
	"errors"
	"fmt"
)

var (
	ErrHeaderTooSmall = errors.New("MRC file too small to contain valid header")
	ErrInvalidHeader  = errors.New("invalid MRC header")
)

type UnknownModeError struct {
	Mode int32
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("Unknown MRC mode: %d", e.Mode)
}

type SliceOutOfBoundsError struct {
	Index int
}

func (e *SliceOutOfBoundsError) Error() string {
	return fmt.Sprintf("Slice %d extends beyond file boundaries", e.Index)
}
