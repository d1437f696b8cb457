// Package endian provides byte order utilities for binary decoding.
//
// This package extends Go's standard encoding/binary package by combining the
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine interface.
// MDict's on-disk format is big-endian throughout (header lengths, block sizes,
// index numbers), so GetBigEndianEngine is the engine every section parser uses;
// GetLittleEndianEngine exists for decoding the UTF-16LE text payloads, whose
// byte order is independent of the file's integer byte order.
//
// # Basic Usage
//
//	import "github.com/gomdict/mdict/endian"
//
//	engine := endian.GetBigEndianEngine()
//	length := engine.Uint32(data[:4])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use. The
// returned EndianEngine instances are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian from
// the standard library.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetBigEndianEngine returns the big-endian engine used for every numeric field
// in the MDict wire format.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine, used only for
// decoding UTF-16LE text payloads.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
