package contracts

// Manifest is the on-disk summary of one converted container. Pixel data is
// not included; File points at the PNG written for the frame, if any.
type Manifest struct {
	Source      string          `json:"source" cbor:"source"`
	Format      Format          `json:"format" cbor:"format"`
	Images      []ManifestImage `json:"images" cbor:"images"`
	Errors      []DecodeError   `json:"errors" cbor:"errors"`
	TotalImages int             `json:"total_images" cbor:"total_images"`
	Metadata    MetadataMap     `json:"metadata" cbor:"metadata"`
	PDF         string          `json:"pdf,omitempty" cbor:"pdf,omitempty"`
}

type ManifestImage struct {
	File string    `json:"file,omitempty" cbor:"file,omitempty"`
	Info ImageInfo `json:"info" cbor:"info"`
}
