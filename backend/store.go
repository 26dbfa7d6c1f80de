package backend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

// seriesDoc is the on-disk representation of one series.
type seriesDoc struct {
	Label string               `json:"label"`
	X     []float64            `json:"x"`
	Y     map[string][]float64 `json:"y"`
}

// Decode parses a data file document mapping keys to series. The order of the
// series in the returned dataset follows the order of the keys in the document.
// Series are stored under their document key; the inner label is only used for
// display and falls back to the key.
func Decode(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed reading data: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDataset(), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("data is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("expected a JSON object of series, got %s", root.Type)
	}
	var docs map[string]seriesDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed decoding series: %w", err)
	}
	series := make([]*Series, 0, len(docs))
	root.ForEach(func(key, _ gjson.Result) bool {
		doc := docs[key.String()]
		label := doc.Label
		if label == "" {
			label = key.String()
		}
		y := doc.Y
		if y == nil {
			y = map[string][]float64{}
		}
		series = append(series, &Series{Key: key.String(), Label: label, X: doc.X, Y: y})
		return true
	})
	return NewDataset(series...), nil
}

// Load reads and decodes the data file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ds, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// LoadOrEmpty behaves like Load, but treats a missing file as an empty dataset.
func LoadOrEmpty(path string) (*Dataset, error) {
	ds, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewDataset(), nil
	}
	return ds, err
}

// Encode writes the dataset as an indented data file document, keeping the
// dataset's series order.
func Encode(w io.Writer, ds *Dataset) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, id := range ds.Labels() {
		s, _ := ds.Lookup(id)
		key, err := json.Marshal(id)
		if err != nil {
			return err
		}
		doc, err := json.MarshalIndent(seriesDoc{Label: s.Label, X: s.X, Y: s.Y}, "  ", "  ")
		if err != nil {
			return fmt.Errorf("failed encoding %q: %w", id, err)
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(doc)
	}
	if ds.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := buf.WriteTo(w)
	return err
}

// Save writes the dataset to path, creating parent directories as needed.
func Save(path string, ds *Dataset) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed creating data directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return Encode(f, ds)
}
