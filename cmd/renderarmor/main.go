package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"armor-geometry-tools/internal/armorjson"
	"armor-geometry-tools/internal/config"
	"armor-geometry-tools/internal/geometry"
	"armor-geometry-tools/internal/preview"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	size := flag.Int("size", 0, "Output image size in pixels (default: 512)")
	format := flag.String("format", "", "Output format: webp or tga (default: webp)")
	out := flag.String("o", "", "Output path (default: input name with image extension)")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: renderarmor [-size N] [-format webp|tga] [-o out] file.{json,geometry} ...")
		os.Exit(1)
	}
	if *out != "" && flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: -o works with a single input file")
		os.Exit(1)
	}

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{PreviewSize: *size, Format: *format})

	failed := 0
	for _, arg := range flag.Args() {
		if err := render(cfg, arg, *out); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func render(cfg config.Config, infile, out string) error {
	rec, err := loadRecord(infile)
	if err != nil {
		return err
	}

	img := preview.Render(rec, cfg.PreviewSize, cfg.Supersample)

	if out == "" {
		stem := strings.TrimSuffix(infile, filepath.Ext(infile))
		out = stem + "." + cfg.Format
	}
	if err := preview.WriteFile(out, img, cfg.Format); err != nil {
		return err
	}

	fmt.Printf("%s: %d pieces, %d triangles → %s\n",
		infile, len(rec.Pieces), rec.TriangleCount(), out)
	return nil
}

// loadRecord accepts either an armor JSON description or an encoded
// .geometry container.
func loadRecord(path string) (geometry.Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return armorjson.Load(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return geometry.Record{}, err
	}
	rec, _, err := geometry.Decode(data)
	return rec, err
}
