package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"armor-geometry-tools/internal/armorjson"
	"armor-geometry-tools/internal/geometry"
)

// Config holds shared settings for a batch conversion run.
type Config struct {
	OutputDir string // empty: write next to each input
	WriteMeta bool   // rewrite each input JSON with size/hash metadata
	Workers   int
}

// Result holds the outcome of converting one armor JSON file.
type Result struct {
	Input    string
	Output   string
	Pieces   int
	Vertices int
	Size     uint32
	Hash     string
	Success  bool
	Error    string
}

// ListInputs returns all .json armor files under dir, sorted, skipping
// manifest.json.
func ListInputs(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if filepath.Base(path) == "manifest.json" {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run converts all files using a worker pool.
func Run(cfg Config, files []string) []Result {
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f files/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = Convert(cfg, files[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range files {
		fileChan <- i
	}
	close(fileChan)

	wg.Wait()
	close(done)

	return results
}

// Convert encodes one armor JSON file to its .geometry output.
func Convert(cfg Config, path string) Result {
	res := Result{Input: path}

	rec, err := armorjson.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	buf, meta, err := geometry.Encode(rec)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Output = OutputPath(cfg.OutputDir, path)
	if err := os.MkdirAll(filepath.Dir(res.Output), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := os.WriteFile(res.Output, buf, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.WriteMeta {
		if err := armorjson.Save(path, rec, meta); err != nil {
			res.Error = err.Error()
			return res
		}
	}

	res.Pieces = len(rec.Pieces)
	res.Vertices = rec.VertexCount()
	res.Size = meta.Size
	res.Hash = meta.HashHex()
	res.Success = true
	return res
}

// OutputPath maps an input JSON path to its .geometry output path.
func OutputPath(outputDir, input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := filepath.Dir(input)
	if outputDir != "" {
		dir = outputDir
	}
	return filepath.Join(dir, stem+".geometry")
}
