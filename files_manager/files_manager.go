package files_manager

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"obscura/contracts"
)

type ContainerFolder = contracts.ContainerFolder

var containerExts = map[string]contracts.Format{
	".tif":  contracts.FormatTIFF,
	".tiff": contracts.FormatTIFF,
	".mrc":  contracts.FormatMRC,
	".mrcs": contracts.FormatMRC,
	".map":  contracts.FormatMRC,
	".rec":  contracts.FormatMRC,
	".st":   contracts.FormatMRC,
	".ali":  contracts.FormatMRC,
}

var compressionExts = map[string]bool{
	".gz":  true,
	".zst": true,
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

func CheckProvidedDirs(inputPath string, outputDir string) error {
	if inputPath == "" || outputDir == "" {
		return fmt.Errorf("input path and output directory required")
	}
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("input path does not exist: %v", err)
	}
	if stat, err := os.Stat(outputDir); err == nil && !stat.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outputDir)
	}
	absIn, _ := filepath.Abs(inputPath)
	absOut, _ := filepath.Abs(outputDir)
	if absIn == absOut {
		return fmt.Errorf("input and output directories must be different")
	}
	return os.MkdirAll(outputDir, 0o755)
}

// IsContainerFile reports whether name looks like a TIFF or MRC file,
// optionally compressed.
func IsContainerFile(name string) bool {
	if strings.HasPrefix(filepath.Base(name), "._") {
		return false
	}
	_, ok := FormatFromName(name)
	return ok
}

// FormatFromName maps a file extension, ignoring .gz or .zst, to the
// container format it conventionally holds.
func FormatFromName(name string) (contracts.Format, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if compressionExts[ext] {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(name, filepath.Ext(name))))
	}
	format, ok := containerExts[ext]
	return format, ok
}

// ContainerName is the file name without compression or image extensions.
func ContainerName(path string) string {
	name := filepath.Base(path)
	if compressionExts[strings.ToLower(filepath.Ext(name))] {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func GetContainerPaths(dir string) ([]string, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, err
	}
	paths := make([]string, 0, len(entries))
	var size int64 = 0
	for _, entry := range entries {
		if entry.IsDir() || !IsContainerFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
		if info, err := entry.Info(); err == nil {
			size += info.Size()
		}
	}
	return paths, size, nil
}

// GetContainerFolders lists rootFolder itself and its direct sub-folders,
// keeping only those that hold at least one container.
func GetContainerFolders(rootFolder string) ([]ContainerFolder, error) {
	entries, err := os.ReadDir(rootFolder)
	if err != nil {
		return nil, err
	}

	dirs := []string{rootFolder}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(rootFolder, entry.Name()))
		}
	}

	folders := make([]ContainerFolder, 0, len(dirs))
	for _, dir := range dirs {
		paths, size, err := GetContainerPaths(dir)
		if err != nil || len(paths) == 0 {
			continue
		}
		folders = append(folders, ContainerFolder{
			ContainerPaths: paths,
			Name:           filepath.Base(filepath.Clean(dir)),
			Path:           dir,
			ContainersSize: size,
		})
	}
	return folders, nil
}

// ReadContainer loads a file, transparently undoing gzip or zstd
// compression detected from its leading bytes.
func ReadContainer(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return Decompress(data)
}

func Decompress(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	case bytes.HasPrefix(data, zstdMagic):
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()

		var out bytes.Buffer
		if _, err := out.ReadFrom(dec); err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return out.Bytes(), nil
	default:
		return data, nil
	}
}
