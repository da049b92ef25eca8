// Package graphdata defines the versioned graphit document format and the
// loader that turns untrusted input into a fully defaulted [Document].
//
// # Wire Format
//
// A serialized document is a JSON object:
//
//	{
//	  "version": 1,
//	  "nodes": [{"id": "a", "label": "node a", "color": null, "isLocked": false, "x": null, "y": null}],
//	  "links": [{"source": "a", "target": "b", "stroke": "solid"}],
//	  "zoomState": {"centerX": 0, "centerY": 0, "scale": 1},
//	  "layoutState": {"layoutType": "force_simulation", "forceSimulationConfig": {...}},
//	  "displayConfig": {"nodeRenderMode": "basic"},
//	  "dataSource": {"connectedSpreadsheetId": null}
//	}
//
// Every field except version is optional on the wire. A missing version
// means version 1.
//
// # Loading
//
// [Load] runs the pipeline:
//
//  1. Read the version tag
//  2. Select the registered validator for that version
//  3. Validate the shape (nothing is defaulted on failure)
//  4. Upgrade to the latest version
//  5. Apply [Defaults] and decode into a typed [Document]
//
// [ApplyDefaults] skips steps 1-4 for payloads built in code, such as the
// spreadsheet importer's output.
//
// # Errors
//
// Failures carry codes from pkg/errors: VALIDATION_ERROR (with the field
// path, e.g. "nodes[1].label") and UNSUPPORTED_VERSION.
package graphdata
