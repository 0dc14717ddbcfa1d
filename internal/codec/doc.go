// Package codec encodes collections of records to the persisted text format
// and decodes them back.
//
// The format is a JSON array of plain objects. Encoding is deterministic:
//   - Object keys sorted by UTF-16 code units
//   - Strings written exactly as given, no HTML escaping
//   - Empty slots (nil records) encode as {}
//
// Two kinds of field value are not plain data and get special treatment at
// the top level of a record:
//   - Callables (Callable, or any Go func) become the text "(" + source + ");"
//   - UI elements (Element) are dropped from the encoded object
//
// Below the top level the usual JSON rules apply: non-data values are omitted
// from objects and become null inside arrays. A map or slice that contains
// itself is reported as ErrCycle.
//
// Decoding reads numbers as json.Number and converts integers to int64 and
// everything else to float64, so integral values survive a round trip exactly.
package codec
