package converter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"obscura/contracts"
	"obscura/files_manager"
	"obscura/pdf_writer"
	"obscura/utils"
)

// ConvertFile decodes the container at path and writes its outputs into
// outDir: one PNG per frame, an optional PDF and a manifest. Frame failures
// end up in the manifest; only container and write failures are returned.
func (c *Converter) ConvertFile(path string, outDir string, args contracts.InputFlags) (*contracts.Manifest, error) {
	data, err := files_manager.ReadContainer(path)
	if err != nil {
		return nil, err
	}
	format, err := Sniff(data)
	if err != nil {
		// unsigned or truncated files still get their format's own errors
		named, ok := files_manager.FormatFromName(path)
		if !ok {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		format = named
	}
	res, err := DecodeFormat(format, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := files_manager.ContainerName(path)
	manifest := &contracts.Manifest{
		Source:      path,
		Format:      format,
		Images:      make([]contracts.ManifestImage, 0, len(res.Images)),
		Errors:      append([]contracts.DecodeError{}, res.Errors...),
		TotalImages: res.Attempts(),
		Metadata:    res.Metadata,
	}

	if !args.WritePNG && !args.WritePDF {
		for _, frame := range res.Images {
			manifest.Images = append(manifest.Images, contracts.ManifestImage{Info: frame.Info})
		}
		return manifest, writeManifestFile(manifest, outDir, name, args.ManifestType)
	}

	var (
		pdfBuf bytes.Buffer
		pw     *pdf_writer.PDFWriter
	)
	dpi := utils.PageDPI(format, data)
	if args.WritePDF {
		pw = pdf_writer.NewPDFWriter(&pdfBuf)
	}

	err = c.EncodeEach(res.Images, func(img contracts.Image) error {
		entry := contracts.ManifestImage{Info: img.Info}
		if args.WritePNG {
			entry.File = fmt.Sprintf("%s_%d.png", name, img.Info.ImageIndex)
			if err := os.WriteFile(filepath.Join(outDir, entry.File), img.PNGData, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", entry.File, err)
			}
		}
		if pw != nil {
			if err := pw.WriteImage(img, dpi); err != nil {
				return err
			}
		}
		manifest.Images = append(manifest.Images, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if pw != nil && pw.Pages() > 0 {
		if err := pw.Finish(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		manifest.PDF = name + ".pdf"
		if err := os.WriteFile(filepath.Join(outDir, manifest.PDF), pdfBuf.Bytes(), 0o644); err != nil {
			return nil, fmt.Errorf("error saving PDF file: %w", err)
		}
	}

	return manifest, writeManifestFile(manifest, outDir, name, args.ManifestType)
}

// ConvertFolder converts every container of folder into outDir. A failing
// file does not stop the others; all failures are returned together.
func (c *Converter) ConvertFolder(folder contracts.ContainerFolder, outDir string, args contracts.InputFlags) ([]*contracts.Manifest, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var result *multierror.Error
	manifests := make([]*contracts.Manifest, 0, len(folder.ContainerPaths))
	for _, path := range folder.ContainerPaths {
		m, err := c.ConvertFile(path, outDir, args)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		manifests = append(manifests, m)
	}
	return manifests, result.ErrorOrNil()
}

func writeManifestFile(m *contracts.Manifest, outDir, name, kind string) error {
	if kind == "" {
		kind = ManifestJSON
	}
	var buf bytes.Buffer
	if err := WriteManifest(&buf, m, kind); err != nil {
		return err
	}
	path := filepath.Join(outDir, name+"."+kind)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing manifest: %w", err)
	}
	return nil
}
