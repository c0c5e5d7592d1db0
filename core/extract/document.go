// Package extract turns analyzer XML documents into scalar measurements.
package extract

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/huangsam/vcxscore/schema"
	"github.com/spf13/afero"
)

// Document gives read access to the text of analyzer fields.
// Paths are relative and searched among all descendants of the root element.
type Document interface {
	Text(path string) (string, error)
}

// XMLDocument is a Document backed by a parsed analyzer XML file.
type XMLDocument struct {
	doc *etree.Document
}

var _ Document = &XMLDocument{} // Compile-time check

// ParseFile reads and parses the XML file at path on fs.
func ParseFile(fs afero.Fs, path string) (*XMLDocument, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to parse XML file %s: %w", path, err)
	}
	return &XMLDocument{doc: doc}, nil
}

// Parse reads and parses an XML document from r.
func Parse(r io.Reader) (*XMLDocument, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return &XMLDocument{doc: doc}, nil
}

// Text returns the text of the first element matching ".//" + path.
func (d *XMLDocument) Text(path string) (string, error) {
	root := d.doc.Root()
	if root == nil {
		return "", &schema.FieldError{Path: path, Err: schema.ErrMissingField}
	}
	p, err := etree.CompilePath(".//" + path)
	if err != nil {
		return "", &schema.FieldError{Path: path, Err: fmt.Errorf("%w: bad path: %v", schema.ErrMissingField, err)}
	}
	el := root.FindElementPath(p)
	if el == nil {
		return "", &schema.FieldError{Path: path, Err: schema.ErrMissingField}
	}
	return el.Text(), nil
}

// MapDocument is an in-memory Document keyed by field path.
type MapDocument map[string]string

// Text returns the value stored for path.
func (m MapDocument) Text(path string) (string, error) {
	v, ok := m[path]
	if !ok {
		return "", &schema.FieldError{Path: path, Err: schema.ErrMissingField}
	}
	return v, nil
}

// parseFloat converts a field text into a float64.
func parseFloat(path, text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, &schema.FieldError{Path: path, Err: fmt.Errorf("%w: %q is not a number", schema.ErrParse, text)}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &schema.FieldError{Path: path, Err: fmt.Errorf("%w: %q is not finite", schema.ErrParse, text)}
	}
	return v, nil
}

// ReadFloat reads one field as a float.
func ReadFloat(doc Document, path string) (float64, error) {
	text, err := doc.Text(path)
	if err != nil {
		return 0, err
	}
	return parseFloat(path, text)
}

// ReadTokens reads one field as a ";"-delimited list, keeping token positions.
func ReadTokens(doc Document, path string) ([]string, error) {
	text, err := doc.Text(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(text, ";"), nil
}

// ReadFloatList reads one field as a ";"-delimited list of floats.
// Empty tokens are discarded.
func ReadFloatList(doc Document, path string) ([]float64, error) {
	tokens, err := ReadTokens(doc, path)
	if err != nil {
		return nil, err
	}
	values := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		v, err := parseFloat(path, tok)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// ReadFloats reads every path of entry as a single float.
func ReadFloats(doc Document, entry schema.XMLEntry) ([]float64, error) {
	values := make([]float64, len(entry))
	for i, path := range entry {
		v, err := ReadFloat(doc, path)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
