package files_manager

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"obscura/contracts"
)

func TestIsContainerFile(t *testing.T) {
	tests := map[string]bool{
		"scan.tif":       true,
		"scan.TIFF":      true,
		"tomo.mrc":       true,
		"tomo.rec.gz":    true,
		"stack.st.zst":   true,
		"notes.txt":      false,
		"archive.gz":     false,
		"._scan.tif":     false,
		"dir/volume.map": true,
	}
	for name, want := range tests {
		if got := IsContainerFile(name); got != want {
			t.Errorf("IsContainerFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFormatFromName(t *testing.T) {
	tests := []struct {
		name   string
		format contracts.Format
		ok     bool
	}{
		{"scan.TIF", contracts.FormatTIFF, true},
		{"tomo.rec.gz", contracts.FormatMRC, true},
		{"stack.ali.zst", contracts.FormatMRC, true},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		format, ok := FormatFromName(tt.name)
		if format != tt.format || ok != tt.ok {
			t.Errorf("FormatFromName(%q) = %q, %v, want %q, %v", tt.name, format, ok, tt.format, tt.ok)
		}
	}
}

func TestContainerName(t *testing.T) {
	tests := map[string]string{
		"/data/scan.tif":     "scan",
		"/data/tomo.mrc.gz":  "tomo",
		"stack.part1.st.zst": "stack.part1",
	}
	for path, want := range tests {
		if got := ContainerName(path); got != want {
			t.Errorf("ContainerName(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecompress(t *testing.T) {
	payload := bytes.Repeat([]byte("MAP volume "), 64)

	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(payload); err != nil {
			t.Fatalf("gzip write failed: %v", err)
		}
		if err := zw.Close(); err != nil {
			t.Fatalf("gzip close failed: %v", err)
		}
		got, err := Decompress(buf.Bytes())
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Error("gzip payload mismatch")
		}
	})

	t.Run("zstd", func(t *testing.T) {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			t.Fatalf("zstd.NewWriter failed: %v", err)
		}
		if _, err := enc.Write(payload); err != nil {
			t.Fatalf("zstd write failed: %v", err)
		}
		if err := enc.Close(); err != nil {
			t.Fatalf("zstd close failed: %v", err)
		}
		got, err := Decompress(buf.Bytes())
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Error("zstd payload mismatch")
		}
	})

	t.Run("plain", func(t *testing.T) {
		got, err := Decompress(payload)
		if err != nil || !bytes.Equal(got, payload) {
			t.Errorf("plain data should pass through, err = %v", err)
		}
	})

	t.Run("truncated gzip", func(t *testing.T) {
		if _, err := Decompress([]byte{0x1f, 0x8b, 0x08}); err == nil {
			t.Error("expected error for truncated gzip stream")
		}
	})
}

func TestGetContainerFolders(t *testing.T) {
	root := t.TempDir()
	write := func(rel string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("top.tif")
	write("a/one.mrc")
	write("a/two.tiff.gz")
	write("a/readme.md")
	write("b/ignored.txt")

	folders, err := GetContainerFolders(root)
	if err != nil {
		t.Fatalf("GetContainerFolders failed: %v", err)
	}
	if len(folders) != 2 {
		t.Fatalf("got %d folders, want 2: %+v", len(folders), folders)
	}
	if folders[0].Path != root || len(folders[0].ContainerPaths) != 1 {
		t.Errorf("root folder = %+v", folders[0])
	}
	if folders[1].Name != "a" || len(folders[1].ContainerPaths) != 2 || folders[1].ContainersSize != 8 {
		t.Errorf("folder a = %+v", folders[1])
	}
}

func TestCheckProvidedDirs(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "nested", "out")

	if err := CheckProvidedDirs(in, out); err != nil {
		t.Fatalf("CheckProvidedDirs failed: %v", err)
	}
	if stat, err := os.Stat(out); err != nil || !stat.IsDir() {
		t.Errorf("output directory was not created: %v", err)
	}
	if err := CheckProvidedDirs(in, in); err == nil {
		t.Error("expected error when input and output are the same")
	}
	if err := CheckProvidedDirs(filepath.Join(in, "missing"), out); err == nil {
		t.Error("expected error for missing input")
	}
}
