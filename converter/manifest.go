package converter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"obscura/contracts"
)

const (
	ManifestJSON = "json"
	ManifestCBOR = "cbor"
)

// manifestMode sorts map keys so the same manifest always yields the same
// bytes.
var manifestMode = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// WriteManifest serializes m as indented JSON or as CBOR.
func WriteManifest(w io.Writer, m *contracts.Manifest, kind string) error {
	var (
		data []byte
		err  error
	)
	switch kind {
	case ManifestJSON, "":
		data, err = json.MarshalIndent(m, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case ManifestCBOR:
		data, err = manifestMode.Marshal(m)
	default:
		return fmt.Errorf("unknown manifest type %q", kind)
	}
	if err != nil {
		return fmt.Errorf("error encoding manifest: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ReadManifest is the inverse of WriteManifest.
func ReadManifest(data []byte, kind string) (*contracts.Manifest, error) {
	m := &contracts.Manifest{}
	var err error
	switch kind {
	case ManifestJSON, "":
		err = json.Unmarshal(data, m)
	case ManifestCBOR:
		err = cbor.Unmarshal(data, m)
	default:
		return nil, fmt.Errorf("unknown manifest type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding manifest: %w", err)
	}
	return m, nil
}
