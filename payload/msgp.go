package payload

import (
	"github.com/tinylib/msgp/msgp"
)

// The MessagePack binding follows the shape of msgp-generated code: append
// straight into the caller's buffer and decode zero-copy map keys.

// Msgsize returns an upper bound of the encoded size of u.
func (u *User) Msgsize() int {
	return msgp.MapHeaderSize +
		msgp.StringPrefixSize + 2 + msgp.Int64Size +
		msgp.StringPrefixSize + 4 + msgp.StringPrefixSize + len(u.Name) +
		msgp.StringPrefixSize + 4 + msgp.StringPrefixSize + len(u.Role)
}

// MarshalMsg implements msgp.Marshaler.
func (u *User) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, u.Msgsize())
	o = msgp.AppendMapHeader(o, 3)
	o = msgp.AppendString(o, "id")
	o = msgp.AppendInt64(o, u.ID)
	o = msgp.AppendString(o, "name")
	o = msgp.AppendString(o, u.Name)
	o = msgp.AppendString(o, "role")
	o = msgp.AppendString(o, u.Role)
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler. Unknown keys are skipped.
func (u *User) UnmarshalMsg(bts []byte) ([]byte, error) {
	n, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}
	var field []byte
	for ; n > 0; n-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}
		switch msgp.UnsafeString(field) {
		case "id":
			u.ID, bts, err = msgp.ReadInt64Bytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "ID")
			}
		case "name":
			u.Name, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "Name")
			}
		case "role":
			u.Role, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "Role")
			}
		default:
			bts, err = msgp.Skip(bts)
			if err != nil {
				return bts, msgp.WrapError(err)
			}
		}
	}
	return bts, nil
}

// Msgsize returns an upper bound of the encoded size of p.
func (p *Payload) Msgsize() int {
	s := msgp.MapHeaderSize + msgp.StringPrefixSize + 5 + msgp.ArrayHeaderSize
	for i := range p.Users {
		s += p.Users[i].Msgsize()
	}
	return s
}

// MarshalMsg implements msgp.Marshaler.
func (p *Payload) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, p.Msgsize())
	o = msgp.AppendMapHeader(o, 1)
	o = msgp.AppendString(o, "users")
	o = msgp.AppendArrayHeader(o, uint32(len(p.Users)))
	var err error
	for i := range p.Users {
		o, err = p.Users[i].MarshalMsg(o)
		if err != nil {
			return o, msgp.WrapError(err, "Users", i)
		}
	}
	return o, nil
}

// UnmarshalMsg implements msgp.Unmarshaler.
func (p *Payload) UnmarshalMsg(bts []byte) ([]byte, error) {
	n, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}
	var field []byte
	for ; n > 0; n-- {
		field, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}
		if msgp.UnsafeString(field) != "users" {
			if bts, err = msgp.Skip(bts); err != nil {
				return bts, msgp.WrapError(err)
			}
			continue
		}
		var sz uint32
		sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
		if err != nil {
			return bts, msgp.WrapError(err, "Users")
		}
		if uint64(sz) > uint64(len(bts)) {
			return bts, msgp.WrapError(msgp.ErrShortBytes, "Users")
		}
		if cap(p.Users) >= int(sz) {
			p.Users = p.Users[:sz]
		} else {
			p.Users = make([]User, sz)
		}
		for i := range p.Users {
			bts, err = p.Users[i].UnmarshalMsg(bts)
			if err != nil {
				return bts, msgp.WrapError(err, "Users", i)
			}
		}
	}
	return bts, nil
}
