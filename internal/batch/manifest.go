package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ManifestEntry represents one converted file in the output manifest.
type ManifestEntry struct {
	Input    string `json:"input"`
	Output   string `json:"output"`
	Pieces   int    `json:"pieces"`
	Vertices int    `json:"vertices"`
	Size     uint32 `json:"size"`
	Hash     string `json:"hash"`
}

// WriteManifest writes manifest.json listing the successful conversions.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Input:    filepath.Base(r.Input),
			Output:   filepath.Base(r.Output),
			Pieces:   r.Pieces,
			Vertices: r.Vertices,
			Size:     r.Size,
			Hash:     r.Hash,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
