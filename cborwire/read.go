package cborwire

import "math"

// readHead decodes the head of the next item, returning its major type and
// argument. Indefinite lengths are rejected.
func readHead(b []byte) (major uint8, arg uint64, rest []byte, err error) {
	if len(b) < 1 {
		return 0, 0, b, ErrShortBytes
	}
	major, info := majorOf(b[0]), infoOf(b[0])
	switch {
	case info <= addInfoDirect:
		return major, uint64(info), b[1:], nil
	case info == addInfoUint8:
		if len(b) < 2 {
			return 0, 0, b, ErrShortBytes
		}
		return major, uint64(b[1]), b[2:], nil
	case info == addInfoUint16:
		if len(b) < 3 {
			return 0, 0, b, ErrShortBytes
		}
		return major, uint64(be.Uint16(b[1:])), b[3:], nil
	case info == addInfoUint32:
		if len(b) < 5 {
			return 0, 0, b, ErrShortBytes
		}
		return major, uint64(be.Uint32(b[1:])), b[5:], nil
	case info == addInfoUint64:
		if len(b) < 9 {
			return 0, 0, b, ErrShortBytes
		}
		return major, be.Uint64(b[1:]), b[9:], nil
	case info == addInfoIndefinite:
		return 0, 0, b, ErrIndefinite
	default:
		return 0, 0, b, ErrReservedInfo
	}
}

func readLength(b []byte, want uint8) (uint32, []byte, error) {
	major, arg, rest, err := readHead(b)
	if err != nil {
		return 0, b, err
	}
	if major != want {
		return 0, b, InvalidPrefixError{Want: want, Got: major}
	}
	if arg > math.MaxUint32 {
		return 0, b, OverflowError{Value: arg, Bitsize: 32}
	}
	return uint32(arg), rest, nil
}

// ReadMapHeaderBytes reads the head of a definite-length map.
func ReadMapHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	return readLength(b, majorTypeMap)
}

// ReadArrayHeaderBytes reads the head of a definite-length array.
func ReadArrayHeaderBytes(b []byte) (sz uint32, o []byte, err error) {
	return readLength(b, majorTypeArray)
}

// ReadInt64Bytes reads an unsigned or negative integer into an int64.
func ReadInt64Bytes(b []byte) (i int64, o []byte, err error) {
	major, arg, rest, err := readHead(b)
	if err != nil {
		return 0, b, err
	}
	switch major {
	case majorTypeUint:
		if arg > math.MaxInt64 {
			return 0, b, OverflowError{Value: arg, Bitsize: 63}
		}
		return int64(arg), rest, nil
	case majorTypeNegInt:
		if arg > math.MaxInt64 {
			return 0, b, OverflowError{Value: arg, Bitsize: 63}
		}
		return -1 - int64(arg), rest, nil
	default:
		return 0, b, InvalidPrefixError{Want: majorTypeUint, Got: major}
	}
}

// ReadStringZC reads a text string without copying; v aliases b.
func ReadStringZC(b []byte) (v []byte, o []byte, err error) {
	// Fast path for strings of 0..23 bytes.
	if len(b) > 0 && b[0] >= 0x60 && b[0] <= 0x77 {
		sz := int(b[0] & 0x1f)
		if len(b) < 1+sz {
			return nil, b, ErrShortBytes
		}
		return b[1 : 1+sz], b[1+sz:], nil
	}
	major, arg, rest, err := readHead(b)
	if err != nil {
		return nil, b, err
	}
	if major != majorTypeText {
		return nil, b, InvalidPrefixError{Want: majorTypeText, Got: major}
	}
	if arg > uint64(len(rest)) {
		return nil, b, ErrShortBytes
	}
	return rest[:arg], rest[arg:], nil
}

// ReadStringBytes reads a text string into a new Go string.
func ReadStringBytes(b []byte) (s string, o []byte, err error) {
	v, o, err := ReadStringZC(b)
	if err != nil {
		return "", b, err
	}
	return string(v), o, nil
}

// Skip returns b without its first item.
func Skip(b []byte) ([]byte, error) {
	return skip(b, 0)
}

func skip(b []byte, depth int) ([]byte, error) {
	if depth > maxDepth {
		return b, ErrMaxDepth
	}
	major, arg, rest, err := readHead(b)
	if err != nil {
		return b, err
	}
	switch major {
	case majorTypeUint, majorTypeNegInt, majorTypeSimple:
		// Floats carry their payload in the head argument.
		return rest, nil
	case majorTypeBytes, majorTypeText:
		if arg > uint64(len(rest)) {
			return b, ErrShortBytes
		}
		return rest[arg:], nil
	case majorTypeArray, majorTypeMap:
		n := arg
		if major == majorTypeMap {
			if n > math.MaxUint64/2 {
				return b, OverflowError{Value: n, Bitsize: 64}
			}
			n *= 2
		}
		if n > uint64(len(rest)) {
			// Every item takes at least one byte.
			return b, ErrShortBytes
		}
		for ; n > 0; n-- {
			if rest, err = skip(rest, depth+1); err != nil {
				return b, err
			}
		}
		return rest, nil
	case majorTypeTag:
		return skip(rest, depth+1)
	}
	return b, InvalidPrefixError{Want: majorTypeUint, Got: major}
}
