package io

import (
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/errors"
)

// ReadDocument decodes a JSON board document from r.
//
// Structural constraints are validated after decoding:
//   - every footprint has a non-empty, unique ID
//   - every pad has a non-empty ID, unique within its footprint
//   - pad sizes and drills are finite and non-negative
//   - track widths are finite and non-negative
//
// Missing design rules are filled in from [board.DefaultRules]. The returned
// document is independent of r; ReadDocument does not close r.
func ReadDocument(r io.Reader) (*board.Document, error) {
	var doc board.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}
	if doc.Rules == (board.DesignRules{}) {
		doc.Rules = board.DefaultRules()
	}
	return &doc, nil
}

// ImportDocument reads a JSON board document from the file at path.
func ImportDocument(path string) (*board.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadDocument(f)
}

func validate(doc *board.Document) error {
	seen := make(map[string]bool, len(doc.Footprints))
	for fi := range doc.Footprints {
		fp := &doc.Footprints[fi]
		if fp.ID == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "footprint %d has no ID", fi)
		}
		if seen[fp.ID] {
			return errors.New(errors.ErrCodeInvalidDocument, "duplicate footprint ID %s", fp.ID)
		}
		seen[fp.ID] = true

		padSeen := make(map[string]bool, len(fp.Pads))
		for pi := range fp.Pads {
			pad := &fp.Pads[pi]
			if pad.ID == "" {
				return errors.New(errors.ErrCodeInvalidDocument, "footprint %s pad %d has no ID", fp.ID, pi)
			}
			if padSeen[pad.ID] {
				return errors.New(errors.ErrCodeInvalidDocument, "footprint %s has duplicate pad ID %s", fp.ID, pad.ID)
			}
			padSeen[pad.ID] = true
			if !finiteNonNegative(pad.Size.W) || !finiteNonNegative(pad.Size.H) {
				return errors.New(errors.ErrCodeInvalidDocument, "footprint %s pad %s has invalid size %gx%g", fp.ID, pad.ID, pad.Size.W, pad.Size.H)
			}
			if !finiteNonNegative(pad.Drill) {
				return errors.New(errors.ErrCodeInvalidDocument, "footprint %s pad %s has invalid drill %g", fp.ID, pad.ID, pad.Drill)
			}
		}
	}

	for i := range doc.Tracks {
		t := &doc.Tracks[i]
		if !finiteNonNegative(t.Width) {
			return errors.New(errors.ErrCodeInvalidDocument, "track %s has invalid width %g", t.ID, t.Width)
		}
	}
	for i := range doc.Vias {
		v := &doc.Vias[i]
		if !finiteNonNegative(v.Drill) || !finiteNonNegative(v.Diameter) {
			return errors.New(errors.ErrCodeInvalidDocument, "via %s has invalid geometry", v.ID)
		}
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
