// Package keyboard models the subset of a QMK keyboard.json file needed to
// draw a wiring diagram.
//
// A keyboard.json describes physical key positions in one or more named
// layouts and the microcontroller pins wired to each matrix row and column:
//
//	{
//	  "layouts": {
//	    "LAYOUT": {
//	      "layout": [
//	        {"matrix": [0, 0], "x": 0, "y": 0},
//	        {"matrix": [0, 1], "x": 1, "y": 0}
//	      ]
//	    }
//	  },
//	  "matrix_pins": {"rows": ["B0"], "cols": ["D0", "D1"]}
//	}
//
// Layout names keep the order in which they appear in the file, so
// [Layouts.First] returns the layout the file lists first rather than the
// alphabetically smallest name.
//
// Use [ReadJSON] to decode from a reader and [ImportJSON] for a local path.
// Remote documents are fetched by the integrations/qmk package.
package keyboard
