// Package wiring derives the electrical view of a keyboard from its layout.
//
// The package has three parts:
//
//   - [ExtractLayout] floors every key's (x, y) position onto an integer
//     [Grid] of matrix addresses, and [ExtractPinTables] returns the raw
//     row and column pin lists.
//   - [Resolver] finds the pin wired to a row (from its first or last key)
//     or to a column (from the key at a given position in the row).
//   - [Translator] turns a raw microcontroller pin such as "D3" into the
//     label printed on the board, "TX0" for a Pro Micro.
//
// Matrix addresses index the pin tables modulo the table length. Firmware
// for multiplexed or split matrices uses logical indices larger than the
// number of physical pins, and wrapping maps them back onto the pins that
// carry them. This is deliberate and applied everywhere an address is
// turned into a pin; see [Wrap].
package wiring
