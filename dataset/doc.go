// Package dataset reads and writes labeled vector records.
//
// A record is one line of comma-separated integers: the class label followed
// by the vector components, with no header.
//
//	5,0,0,0,...,255,18,0
//
// Blank lines are skipped. A record with the wrong number of fields or a
// non-integer field fails the whole load with a *MalformedRecordError.
//
// Blob names select a compression codec by suffix: ".zst" (zstd), ".gz"
// (gzip) and ".lz4" (lz4 frames). Any other name is plain text.
package dataset
