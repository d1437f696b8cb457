// Package section defines the parsed, in-memory structures that sit between
// the raw scanner and the dictionary's lookup engine: the XML-derived
// Attributes and their Config, the keyword index directory, the packed
// keyword hash table, and the record-block directory.
//
// Unlike the teacher layout this package descends from, MDict headers carry
// no fixed-size packed-flag struct — the header is a single XML element read
// once at Open and turned into a plain Attributes map — so this package has
// no Header/Flag/MagicNumber types. KeywordIndexEntry and the record-block
// directory are decoded from an internal/scanner.Scanner by DecodeX
// functions (DecodeKeywordIndex, DecodeRecordBlockIndex).
package section
