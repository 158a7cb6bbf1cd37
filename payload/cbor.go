package payload

import (
	"fmt"
	"unsafe"

	"github.com/synadia-labs/codecbench/cborwire"
)

// cborSize returns the exact encoded size of p in the hand-rolled CBOR form.
func (p *Payload) cborSize() int {
	n := cborwire.HeadSize(1) + cborwire.HeadSize(5) + 5 + cborwire.HeadSize(uint64(len(p.Users)))
	for i := range p.Users {
		u := &p.Users[i]
		n += cborwire.HeadSize(3)
		n += 1 + 2 + cborwire.HeadSize(uint64(u.ID))
		n += 1 + 4 + cborwire.HeadSize(uint64(len(u.Name))) + len(u.Name)
		n += 1 + 4 + cborwire.HeadSize(uint64(len(u.Role))) + len(u.Role)
	}
	return n
}

// MarshalCBORWire appends p to b as a CBOR map {"users": [{"id","name","role"}...]}
// whose bytes match what a CBOR library produces for the tagged struct.
func (p *Payload) MarshalCBORWire(b []byte) ([]byte, error) {
	o := cborwire.Require(b, p.cborSize())
	o = cborwire.AppendMapHeader(o, 1)
	o = cborwire.AppendString(o, "users")
	o = cborwire.AppendArrayHeader(o, uint32(len(p.Users)))
	for i := range p.Users {
		u := &p.Users[i]
		o = cborwire.AppendMapHeader(o, 3)
		o = cborwire.AppendString(o, "id")
		o = cborwire.AppendInt64(o, u.ID)
		o = cborwire.AppendString(o, "name")
		o = cborwire.AppendString(o, u.Name)
		o = cborwire.AppendString(o, "role")
		o = cborwire.AppendString(o, u.Role)
	}
	return o, nil
}

// UnmarshalCBORWire decodes a payload from the front of b and returns the
// remaining bytes. Unknown keys are skipped.
func (p *Payload) UnmarshalCBORWire(b []byte) ([]byte, error) {
	n, b, err := cborwire.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	var key []byte
	for ; n > 0; n-- {
		key, b, err = cborwire.ReadStringZC(b)
		if err != nil {
			return b, err
		}
		if unsafeString(key) != "users" {
			if b, err = cborwire.Skip(b); err != nil {
				return b, err
			}
			continue
		}
		var sz uint32
		sz, b, err = cborwire.ReadArrayHeaderBytes(b)
		if err != nil {
			return b, cborwire.WrapError(err, "Users")
		}
		// every element takes at least one byte
		if uint64(sz) > uint64(len(b)) {
			return b, cborwire.WrapError(cborwire.ErrShortBytes, "Users")
		}
		p.Users = make([]User, sz)
		for i := range p.Users {
			b, err = p.Users[i].unmarshalCBORWire(b)
			if err != nil {
				return b, cborwire.WrapError(cborwire.WrapError(err, fmt.Sprint(i)), "Users")
			}
		}
	}
	return b, nil
}

func (u *User) unmarshalCBORWire(b []byte) ([]byte, error) {
	n, b, err := cborwire.ReadMapHeaderBytes(b)
	if err != nil {
		return b, err
	}
	var key []byte
	for ; n > 0; n-- {
		key, b, err = cborwire.ReadStringZC(b)
		if err != nil {
			return b, err
		}
		switch unsafeString(key) {
		case "id":
			u.ID, b, err = cborwire.ReadInt64Bytes(b)
			if err != nil {
				return b, cborwire.WrapError(err, "ID")
			}
		case "name":
			u.Name, b, err = cborwire.ReadStringBytes(b)
			if err != nil {
				return b, cborwire.WrapError(err, "Name")
			}
		case "role":
			u.Role, b, err = cborwire.ReadStringBytes(b)
			if err != nil {
				return b, cborwire.WrapError(err, "Role")
			}
		default:
			if b, err = cborwire.Skip(b); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

// unsafeString views b as a string for switch comparisons; the result must
// not outlive b.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}
