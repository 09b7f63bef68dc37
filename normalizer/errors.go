package normalizer

import (
	"fmt"

	"obscura/contracts"
)

// UnsupportedEncodingError is returned for encodings without a table entry.
// It only affects the frame being converted.
type UnsupportedEncodingError struct {
	Format   contracts.Format
	Encoding Encoding
}

func (e *UnsupportedEncodingError) Error() string {
	if e.Format == contracts.FormatMRC {
		return fmt.Sprintf("Unsupported MRC mode: %s", e.Encoding)
	}
	return fmt.Sprintf("Unsupported %s color type: %s", e.Format, e.Encoding)
}
