// Package codecs is the catalogue of serialization formats under
// comparison. Each codec closes over one prepared fixture and is turned into
// a pair of harness cases, "<name>.encode" and "<name>.decode".
package codecs

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alpkeskin/gotoon"
	"github.com/fxamacker/cbor/v2"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	toon "github.com/toon-format/toon-go"
	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"

	"github.com/synadia-labs/codecbench/harness"
	"github.com/synadia-labs/codecbench/payload"
)

// Case groups, one per wire format.
const (
	GroupJSON     = "json"
	GroupProtobuf = "protobuf"
	GroupTOON     = "toon"
	GroupCBOR     = "cbor"
	GroupMsgpack  = "msgpack"
)

// Groups lists every group in catalogue order.
var Groups = []string{GroupJSON, GroupProtobuf, GroupTOON, GroupCBOR, GroupMsgpack}

// ErrMalformedFixture is returned by AddCases when a codec's own output
// cannot be decoded back.
var ErrMalformedFixture = errors.New("codecs: malformed decode fixture")

// Options tunes how the catalogue encodes.
type Options struct {
	// LengthMarkers renders TOON array lengths as [#N].
	LengthMarkers bool
}

// Codec is a named encode/decode pair over a prepared payload.
type Codec struct {
	Name  string
	Group string
	// Encode serializes the prepared payload.
	Encode func() ([]byte, error)
	// Decode parses b into a fresh payload and discards it. It is nil for
	// encode-only codecs.
	Decode func(b []byte) error

	decode func(b []byte) (payload.Payload, error)
}

type binding struct {
	name   string
	group  string
	encode func() ([]byte, error)
	decode func([]byte) (payload.Payload, error)
}

// Catalogue prepares every codec for p. Preparation that fails, such as
// building the protobuf schema, is returned as an error.
func Catalogue(p payload.Payload, opts Options) ([]Codec, error) {
	bindings, err := bindAll(p, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Codec, len(bindings))
	for i, b := range bindings {
		out[i] = Codec{Name: b.name, Group: b.group, Encode: b.encode}
		if dec := b.decode; dec != nil {
			out[i].Decode = func(data []byte) error {
				_, err := dec(data)
				return err
			}
			out[i].decode = dec
		}
	}
	return out, nil
}

func bindAll(p payload.Payload, opts Options) ([]binding, error) {
	schema, err := payload.Schema()
	if err != nil {
		return nil, err
	}
	pm := schema.ToProto(p)

	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("codecs: cbor enc mode: %w", err)
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("codecs: cbor dec mode: %w", err)
	}
	iter := jsoniter.ConfigCompatibleWithStandardLibrary

	return []binding{
		{
			name:   "encoding/json",
			group:  GroupJSON,
			encode: func() ([]byte, error) { return json.Marshal(&p) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = json.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			name:   "goccy/go-json",
			group:  GroupJSON,
			encode: func() ([]byte, error) { return gojson.Marshal(&p) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = gojson.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			name:   "jsoniter",
			group:  GroupJSON,
			encode: func() ([]byte, error) { return iter.Marshal(&p) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = iter.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			name:   "protobuf",
			group:  GroupProtobuf,
			encode: func() ([]byte, error) { return proto.Marshal(pm) },
			decode: schema.UnmarshalProto,
		},
		{
			name:   "toon-go",
			group:  GroupTOON,
			encode: func() ([]byte, error) { return toon.Marshal(p, toon.WithLengthMarkers(opts.LengthMarkers)) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = toon.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			name:  "gotoon",
			group: GroupTOON,
			encode: func() ([]byte, error) {
				s, err := gotoon.Encode(p)
				return []byte(s), err
			},
		},
		{
			name:   "fxamacker/cbor",
			group:  GroupCBOR,
			encode: func() ([]byte, error) { return em.Marshal(&p) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = dm.Unmarshal(b, &out)
				return out, err
			},
		},
		{
			name:   "cborwire",
			group:  GroupCBOR,
			encode: func() ([]byte, error) { return p.MarshalCBORWire(nil) },
			decode: func(b []byte) (out payload.Payload, err error) {
				_, err = out.UnmarshalCBORWire(b)
				return out, err
			},
		},
		{
			name:   "tinylib/msgp",
			group:  GroupMsgpack,
			encode: func() ([]byte, error) { return p.MarshalMsg(nil) },
			decode: func(b []byte) (out payload.Payload, err error) {
				_, err = out.UnmarshalMsg(b)
				return out, err
			},
		},
		{
			name:   "vmihailenco/msgpack",
			group:  GroupMsgpack,
			encode: func() ([]byte, error) { return msgpack.Marshal(&p) },
			decode: func(b []byte) (out payload.Payload, err error) {
				err = msgpack.Unmarshal(b, &out)
				return out, err
			},
		},
	}, nil
}

// AddCases registers the encode and decode cases of every codec whose group
// is not skipped. The decode fixture is the codec's own encoding, produced
// once here. A codec that cannot produce a fixture keeps its encode case and
// loses its decode case, with a message passed to notice; a fixture that
// fails to decode returns ErrMalformedFixture. Encode-only codecs get no
// decode case and no notice.
func AddCases(s *harness.Suite, codecs []Codec, skip harness.GroupFilter, notice func(string)) error {
	for _, c := range codecs {
		if !skip.Enabled(c.Group) {
			continue
		}
		fixture, encErr := c.Encode()
		var size int64
		if encErr == nil {
			size = int64(len(fixture))
		}
		if err := s.Add(harness.Case{
			Name:  c.Name + ".encode",
			Group: c.Group,
			Bytes: size,
			Op:    encodeOp(c.Encode),
		}); err != nil {
			return err
		}

		if c.Decode == nil {
			continue
		}
		if encErr != nil || len(fixture) == 0 {
			if notice != nil {
				notice(fmt.Sprintf("Skipping %s.decode because initial encoding failed or was not prepared.", c.Name))
			}
			continue
		}
		if err := c.Decode(fixture); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformedFixture, c.Name, err)
		}
		if err := s.Add(harness.Case{
			Name:  c.Name + ".decode",
			Group: c.Group,
			Bytes: size,
			Op:    decodeOp(c.Decode, fixture),
		}); err != nil {
			return err
		}
	}
	return nil
}

func encodeOp(encode func() ([]byte, error)) harness.OpFunc {
	return func() error {
		_, err := encode()
		return err
	}
}

func decodeOp(decode func([]byte) error, fixture []byte) harness.OpFunc {
	return func() error { return decode(fixture) }
}
