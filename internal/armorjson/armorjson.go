// Package armorjson reads and writes the armor description JSON files that
// feed the geometry codec: an "armor" object mapping piece ids to triangle
// lists, plus a "metadata" object written back after conversion.
package armorjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"armor-geometry-tools/internal/geometry"
)

// Load reads an armor JSON file into a record. Piece order follows the key
// order of the "armor" object, which is why the file is walked with a
// token decoder: a map would destroy the order the wire layout depends on.
// An existing "metadata" member is ignored.
func Load(path string) (geometry.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geometry.Record{}, fmt.Errorf("armorjson: read %s: %w", path, err)
	}
	rec, err := Parse(data)
	if err != nil {
		return geometry.Record{}, fmt.Errorf("armorjson: parse %s: %w", path, err)
	}
	return rec, nil
}

// Parse decodes the armor document from raw JSON bytes.
func Parse(data []byte) (geometry.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return geometry.Record{}, err
	}

	var rec geometry.Record
	haveArmor := false
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return geometry.Record{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return geometry.Record{}, fmt.Errorf("unexpected token %v", tok)
		}

		if key != "armor" {
			// metadata or unknown members: consume and drop
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return geometry.Record{}, err
			}
			continue
		}

		rec, err = parseArmor(dec)
		if err != nil {
			return geometry.Record{}, err
		}
		haveArmor = true
	}
	if !haveArmor {
		return geometry.Record{}, fmt.Errorf("no armor object")
	}
	return rec, nil
}

func parseArmor(dec *json.Decoder) (geometry.Record, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return geometry.Record{}, err
	}

	var rec geometry.Record
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return geometry.Record{}, err
		}
		key := tok.(string)
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return geometry.Record{}, fmt.Errorf("piece id %q is not an unsigned integer", key)
		}

		var raw [][][]float32
		if err := dec.Decode(&raw); err != nil {
			return geometry.Record{}, fmt.Errorf("piece %d: %w", id, err)
		}

		tris := make([]geometry.Triangle, len(raw))
		for t, tri := range raw {
			if len(tri) != 3 {
				return geometry.Record{}, fmt.Errorf("piece %d triangle %d: %d vertices, want 3", id, t, len(tri))
			}
			for v, vert := range tri {
				if len(vert) != 3 {
					return geometry.Record{}, fmt.Errorf("piece %d triangle %d vertex %d: %d coordinates, want 3",
						id, t, v, len(vert))
				}
				tris[t][v] = geometry.Vertex{vert[0], vert[1], vert[2]}
			}
		}
		rec.Pieces = append(rec.Pieces, geometry.Piece{ID: id, Triangles: tris})
	}

	// Closing brace of the armor object.
	if _, err := dec.Token(); err != nil {
		return geometry.Record{}, err
	}
	return rec, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("unexpected token %v, want %q", tok, want)
	}
	return nil
}

// Save rewrites the armor JSON with the conversion metadata attached,
// tab-indented, pieces in record order.
func Save(path string, rec geometry.Record, meta geometry.Metadata) error {
	data, err := Marshal(rec, meta)
	if err != nil {
		return fmt.Errorf("armorjson: marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("armorjson: write %s: %w", path, err)
	}
	return nil
}

// Marshal produces the armor document with metadata.
func Marshal(rec geometry.Record, meta geometry.Metadata) ([]byte, error) {
	doc := document{
		Armor: orderedArmor{pieces: rec.Pieces},
		Metadata: metadataJSON{
			Size: meta.Size,
			Hash: meta.HashHex(),
		},
	}
	return json.MarshalIndent(doc, "", "\t")
}

type document struct {
	Armor    orderedArmor `json:"armor"`
	Metadata metadataJSON `json:"metadata"`
}

type metadataJSON struct {
	Size uint32 `json:"size"`
	Hash string `json:"hash"`
}

// orderedArmor marshals pieces as a JSON object in slice order.
type orderedArmor struct {
	pieces []geometry.Piece
}

func (o orderedArmor) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o.pieces {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(p.ID, 10))
		buf.WriteString(`":`)
		triangles := p.Triangles
		if triangles == nil {
			triangles = []geometry.Triangle{}
		}
		tris, err := json.Marshal(triangles)
		if err != nil {
			return nil, err
		}
		buf.Write(tris)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
