package contracts

// Format identifies the container family a buffer was decoded as.
type Format string

const (
	FormatTIFF Format = "TIFF"
	FormatMRC  Format = "MRC"
)

type ContainerFolder struct {
	ContainerPaths []string
	Name           string
	Path           string
	ContainersSize int64
}
