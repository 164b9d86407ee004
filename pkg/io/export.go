package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/drc"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/route"
)

// WriteDocument encodes a board document as indented JSON and writes it to w.
// The output can be re-imported with [ReadDocument] for round-trip processing.
func WriteDocument(doc *board.Document, w io.Writer) error {
	return encode(doc, w)
}

// ExportDocument writes a board document to a JSON file at path.
func ExportDocument(doc *board.Document, path string) error {
	return exportFile(doc, path)
}

// WriteResult encodes a routing result as indented JSON and writes it to w.
func WriteResult(res route.Result, w io.Writer) error {
	return encode(res, w)
}

// ExportResult writes a routing result to a JSON file at path.
func ExportResult(res route.Result, path string) error {
	return exportFile(res, path)
}

// WriteReport encodes a design rule check report as indented JSON and
// writes it to w.
func WriteReport(rep drc.Report, w io.Writer) error {
	return encode(rep, w)
}

// ExportReport writes a design rule check report to a JSON file at path.
func ExportReport(rep drc.Report, path string) error {
	return exportFile(rep, path)
}

func encode(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}

func exportFile(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return encode(v, f)
}
