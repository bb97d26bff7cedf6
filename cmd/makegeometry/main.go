package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"armor-geometry-tools/internal/armorjson"
	"armor-geometry-tools/internal/batch"
	"armor-geometry-tools/internal/config"
	"armor-geometry-tools/internal/geometry"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	dir := flag.String("dir", "", "Convert every armor .json under this directory")
	outputDir := flag.String("output", "", "Output directory (default: next to each input)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	noMeta := flag.Bool("nometa", false, "Do not write size/hash metadata back into the input JSON")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg.WriteMeta = true
	}

	cfg.Resolve(config.Flags{
		InputDir:  *dir,
		OutputDir: *outputDir,
		Workers:   *workers,
	})
	if *noMeta {
		cfg.WriteMeta = false
	}

	if cfg.InputDir != "" {
		runBatch(cfg)
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no infile specified.")
		fmt.Fprintln(os.Stderr, "Pass armor files in .json format to convert to .geometry, or use -dir.")
		os.Exit(1)
	}

	failed := 0
	for _, infile := range flag.Args() {
		if err := convertOne(cfg, infile); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", infile, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func convertOne(cfg config.Config, infile string) error {
	rec, err := armorjson.Load(infile)
	if err != nil {
		return err
	}

	buf, meta, err := geometry.Encode(rec)
	if err != nil {
		return err
	}

	outfile := batch.OutputPath(cfg.OutputDir, infile)
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(outfile, buf, 0644); err != nil {
		return err
	}

	if cfg.WriteMeta {
		if err := armorjson.Save(infile, rec, meta); err != nil {
			return err
		}
	}

	fmt.Printf("%s: %d pieces, %d vertices, content %d bytes, md5 %s\n",
		outfile, len(rec.Pieces), rec.VertexCount(), meta.Size, meta.HashHex())
	return nil
}

func runBatch(cfg config.Config) {
	files, err := batch.ListInputs(cfg.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", cfg.InputDir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No armor files to convert.")
		return
	}

	fmt.Printf("Armor JSON → .geometry converter\n")
	fmt.Printf("Files: %d, Workers: %d\n", len(files), cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{
		OutputDir: cfg.OutputDir,
		WriteMeta: cfg.WriteMeta,
		Workers:   cfg.Workers,
	}, files)
	elapsed := time.Since(start)

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Converted: %d/%d\n", success, len(files))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Input, e.Error)
		}
	}

	manifestDir := cfg.OutputDir
	if manifestDir == "" {
		manifestDir = cfg.InputDir
	}
	manifestPath := filepath.Join(manifestDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
