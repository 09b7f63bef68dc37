package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"obscura/contracts"
	"obscura/converter"
	"obscura/files_manager"
)

type InputFlags = contracts.InputFlags

func main() {
	inputPath := flag.String("input", "", "Input TIFF/MRC file or directory")
	outputDir := flag.String("output", "", "Output directory for converted files")
	writePDF := flag.Bool("pdf", false, "Also write one PDF per container")
	writePNG := flag.Bool("png", true, "Write one PNG per decoded frame")
	manifestType := flag.String("manifest", converter.ManifestJSON, "Manifest format: json or cbor")
	workers := flag.Int("workers", max(runtime.NumCPU()-1, 1), "Encoder workers per container")
	flag.Parse()

	args := InputFlags{
		InputPath:    *inputPath,
		OutputDir:    *outputDir,
		ManifestType: *manifestType,
		WritePNG:     *writePNG,
		WritePDF:     *writePDF,
		Workers:      *workers,
	}

	if err := run(args); err != nil {
		log.Printf("[ERROR]: %v", err)
		os.Exit(1)
	}
}

// run converts one file or a folder tree. The elapsed time is printed on
// every return path.
func run(args InputFlags) error {
	if args.ManifestType != converter.ManifestJSON && args.ManifestType != converter.ManifestCBOR {
		return fmt.Errorf("unknown manifest type %q", args.ManifestType)
	}

	fmt.Println("input:", args.InputPath)
	fmt.Println("outputDir:", args.OutputDir)

	if err := files_manager.CheckProvidedDirs(args.InputPath, args.OutputDir); err != nil {
		return err
	}

	startTime := time.Now()
	defer func() {
		fmt.Printf("Total time taken: %s\n", time.Since(startTime))
	}()

	c := converter.New()
	c.Workers = max(args.Workers, 1)

	stat, err := os.Stat(args.InputPath)
	if err != nil {
		return err
	}
	if !stat.IsDir() {
		m, err := c.ConvertFile(args.InputPath, args.OutputDir, args)
		if err != nil {
			return fmt.Errorf("error during conversion: %w", err)
		}
		report(m)
		fmt.Println("Conversion completed successfully.")
		return nil
	}

	folders, err := files_manager.GetContainerFolders(args.InputPath)
	if err != nil {
		return fmt.Errorf("error getting container folders: %w", err)
	}
	if len(folders) == 0 {
		fmt.Println("No TIFF or MRC files found in the input directory.")
		return nil
	}
	fmt.Printf("Found %d folders with containers.\n", len(folders))

	maxConversions := max(runtime.NumCPU()-1, 1)
	sem := make(chan struct{}, maxConversions)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)

	fmt.Println("Starting conversion...")

	for i, folder := range folders {
		wg.Add(1)
		go func(folder contracts.ContainerFolder, root bool) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			outDir := args.OutputDir
			if !root {
				outDir = filepath.Join(args.OutputDir, folder.Name)
			}
			manifests, err := c.ConvertFolder(folder, outDir, args)

			mu.Lock()
			defer mu.Unlock()
			for _, m := range manifests {
				report(m)
			}
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("folder %s: %w", folder.Path, err))
			}
		}(folder, i == 0 && folder.Path == args.InputPath)
	}
	wg.Wait()

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("conversion finished with errors: %w", err)
	}
	fmt.Println("Conversion completed successfully.")
	return nil
}

func report(m *contracts.Manifest) {
	fmt.Printf("%s: %s, %d/%d frames decoded\n", m.Source, m.Format, len(m.Images), m.TotalImages)
	for _, e := range m.Errors {
		log.Printf("%s: frame %d: %s", m.Source, e.ImageIndex, e.Message)
	}
}
