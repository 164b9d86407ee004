// Package io provides JSON import and export for board documents, routing
// results, and design rule check reports.
//
// # Overview
//
// The document format is a plain JSON rendering of [board.Document]: the
// board outline, footprints with their pads, existing copper, and the design
// rules. It is designed for:
//
//   - Handing snapshots from an interactive editor to the engine
//   - Caching routing results keyed by the serialized document
//   - Round-trip processing: import, route, export, re-import
//
// # Document Format
//
//	{
//	  "outline": [{"x": 0, "y": 0}, {"x": 50, "y": 0}, ...],
//	  "footprints": [
//	    {
//	      "id": "U1",
//	      "position": {"x": 10, "y": 10},
//	      "rotation": 90,
//	      "pads": [
//	        {"id": "1", "net": "VCC", "offset": {"x": 0, "y": 0},
//	         "size": {"w": 1, "h": 1}, "shape": "circle", "mount": "smd"}
//	      ]
//	    }
//	  ],
//	  "tracks": [...],
//	  "vias": [...],
//	  "rules": {"clearance": 0.2, "track_width": 0.25, ...}
//	}
//
// # Import
//
// Use [ImportDocument] to read a document from a file path, or
// [ReadDocument] to read from any io.Reader. Both validate structural
// constraints (non-empty IDs, no duplicate footprint IDs, positive pad
// sizes) and wrap failures with context about the offending object.
//
// # Export
//
// [WriteResult] and [WriteReport] encode routing results and check reports
// as indented JSON; [ExportResult] and [ExportReport] are the file-based
// convenience wrappers.
package io
