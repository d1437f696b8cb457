// Package dict implements the MDict dictionary reader: opening an mdx or mdd
// file, parsing its header and directories, and serving keyword lookups and
// prefix searches against it.
//
// Open models parsing the way the teacher codebase this module descends from
// models decoding a blob — an explicit sequence of named parse steps
// (parseHead, parseKeywordSection, parseRecordSection) rather than a
// callback chain — except the steps here read from an io.ReaderAt via
// context-cancellable calls instead of decoding an in-memory byte slice in
// one shot, since an MDict file is typically too large to read whole.
package dict
