package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"armor-geometry-tools/internal/geometry"
)

func main() {
	verify := flag.String("verify", "", "Expected content MD5 (32 hex chars); fail on mismatch")
	verbose := flag.Bool("v", false, "Print per-piece vertex bounds")

	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspectgeometry [-verify <md5hex>] [-v] file.geometry ...")
		os.Exit(1)
	}

	var wantHash [16]byte
	haveWant := false
	if *verify != "" {
		raw, err := hex.DecodeString(*verify)
		if err != nil || len(raw) != 16 {
			fmt.Fprintln(os.Stderr, "Error: -verify takes 32 hex characters")
			os.Exit(1)
		}
		copy(wantHash[:], raw)
		haveWant = true
	}

	failed := 0
	for _, arg := range flag.Args() {
		data, err := os.ReadFile(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read error %s: %v\n", arg, err)
			failed++
			continue
		}

		var rec geometry.Record
		var meta geometry.Metadata
		if haveWant {
			rec, meta, err = geometry.DecodeVerify(data, wantHash)
		} else {
			rec, meta, err = geometry.Decode(data)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Decode error %s: %v\n", arg, err)
			failed++
			continue
		}

		fmt.Printf("\n=== %s (%d bytes) ===\n", arg, len(data))
		fmt.Printf("Pieces: %d, Triangles: %d, Vertices: %d\n",
			len(rec.Pieces), rec.TriangleCount(), rec.VertexCount())
		fmt.Printf("Content: %d bytes, md5 %s\n", meta.Size, meta.HashHex())

		if *verbose {
			for _, p := range rec.Pieces {
				lo, hi := bounds(p)
				fmt.Printf("  Piece %d: %d triangles, x=[%g..%g] y=[%g..%g] z=[%g..%g]\n",
					p.ID, len(p.Triangles), lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func bounds(p geometry.Piece) (lo, hi [3]float32) {
	first := true
	for _, tri := range p.Triangles {
		for _, v := range tri {
			for k := 0; k < 3; k++ {
				if first || v[k] < lo[k] {
					lo[k] = v[k]
				}
				if first || v[k] > hi[k] {
					hi[k] = v[k]
				}
			}
			first = false
		}
	}
	return lo, hi
}
