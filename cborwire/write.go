package cborwire

import "math"

// appendHead appends the initial byte of an item with argument u, using the
// shortest encoding.
func appendHead(b []byte, major uint8, u uint64) []byte {
	switch {
	case u <= addInfoDirect:
		return append(b, makeByte(major, uint8(u)))
	case u <= math.MaxUint8:
		return append(b, makeByte(major, addInfoUint8), uint8(u))
	case u <= math.MaxUint16:
		b = append(b, makeByte(major, addInfoUint16), 0, 0)
		be.PutUint16(b[len(b)-2:], uint16(u))
		return b
	case u <= math.MaxUint32:
		b = append(b, makeByte(major, addInfoUint32), 0, 0, 0, 0)
		be.PutUint32(b[len(b)-4:], uint32(u))
		return b
	default:
		b = append(b, makeByte(major, addInfoUint64), 0, 0, 0, 0, 0, 0, 0, 0)
		be.PutUint64(b[len(b)-8:], u)
		return b
	}
}

// HeadSize returns the encoded size of an item head with argument u.
func HeadSize(u uint64) int {
	switch {
	case u <= addInfoDirect:
		return 1
	case u <= math.MaxUint8:
		return 2
	case u <= math.MaxUint16:
		return 3
	case u <= math.MaxUint32:
		return 5
	default:
		return 9
	}
}

// Require returns b with room for at least n more bytes.
func Require(b []byte, n int) []byte {
	if cap(b)-len(b) >= n {
		return b
	}
	nb := make([]byte, len(b), 2*cap(b)+n)
	copy(nb, b)
	return nb
}

// AppendMapHeader appends the head of a map with sz pairs.
func AppendMapHeader(b []byte, sz uint32) []byte {
	return appendHead(b, majorTypeMap, uint64(sz))
}

// AppendArrayHeader appends the head of an array with sz items.
func AppendArrayHeader(b []byte, sz uint32) []byte {
	return appendHead(b, majorTypeArray, uint64(sz))
}

// AppendInt64 appends i as an unsigned or negative integer.
func AppendInt64(b []byte, i int64) []byte {
	if i >= 0 {
		return appendHead(b, majorTypeUint, uint64(i))
	}
	// -1-n encoding: the argument is -(i+1), which cannot overflow.
	return appendHead(b, majorTypeNegInt, uint64(-(i + 1)))
}

// AppendString appends s as a text string.
func AppendString(b []byte, s string) []byte {
	b = appendHead(b, majorTypeText, uint64(len(s)))
	return append(b, s...)
}
