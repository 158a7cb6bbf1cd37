// Package cborwire holds the small set of CBOR (RFC 8949) primitives needed
// to hand-encode the benchmark payload: definite-length maps and arrays,
// integers and text strings.
//
// It follows the append/read style of the msgp runtime:
//   - AppendXxx(b, v) appends v to b in CBOR encoding and returns the new slice.
//   - ReadXxxBytes(b) reads one item from the front of b and returns it with
//     the remaining bytes.
package cborwire

import "encoding/binary"

var be = binary.BigEndian

// Major types (high 3 bits of the initial byte).
const (
	majorTypeUint   = 0
	majorTypeNegInt = 1
	majorTypeBytes  = 2
	majorTypeText   = 3
	majorTypeArray  = 4
	majorTypeMap    = 5
	majorTypeTag    = 6
	majorTypeSimple = 7
)

// Additional information (low 5 bits).
const (
	addInfoDirect     = 23
	addInfoUint8      = 24
	addInfoUint16     = 25
	addInfoUint32     = 26
	addInfoUint64     = 27
	addInfoIndefinite = 31
)

// maxDepth bounds nesting in Skip.
const maxDepth = 512

func makeByte(major, info uint8) byte { return major<<5 | info }

func majorOf(b byte) uint8 { return b >> 5 }

func infoOf(b byte) uint8 { return b & 0x1f }
