package payload

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// The protobuf schema is declared as a descriptor rather than generated
// code:
//
//	syntax = "proto3";
//	package codecbench;
//	message UserP { int64 id = 1; string name = 2; string role = 3; }
//	message PayloadP { repeated UserP users = 1; }
func userFileDescriptor() *descriptorpb.FileDescriptorProto {
	optional := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum()
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("codecbench/user.proto"),
		Package: proto.String("codecbench"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("UserP"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("id"), JsonName: proto.String("id"), Number: proto.Int32(1), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_INT64.Enum()},
					{Name: proto.String("name"), JsonName: proto.String("name"), Number: proto.Int32(2), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
					{Name: proto.String("role"), JsonName: proto.String("role"), Number: proto.Int32(3), Label: optional, Type: descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum()},
				},
			},
			{
				Name: proto.String("PayloadP"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto.String("users"),
						JsonName: proto.String("users"),
						Number:   proto.Int32(1),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
						TypeName: proto.String(".codecbench.UserP"),
					},
				},
			},
		},
	}
}

// ProtoSchema holds the resolved descriptors of the payload messages.
type ProtoSchema struct {
	Payload protoreflect.MessageDescriptor
	User    protoreflect.MessageDescriptor

	users protoreflect.FieldDescriptor
	id    protoreflect.FieldDescriptor
	name  protoreflect.FieldDescriptor
	role  protoreflect.FieldDescriptor
}

var (
	schemaOnce sync.Once
	schema     *ProtoSchema
	schemaErr  error
)

// Schema builds (once) and returns the protobuf schema of the payload.
func Schema() (*ProtoSchema, error) {
	schemaOnce.Do(func() {
		fd, err := protodesc.NewFile(userFileDescriptor(), new(protoregistry.Files))
		if err != nil {
			schemaErr = fmt.Errorf("payload: build proto descriptor: %w", err)
			return
		}
		s := &ProtoSchema{
			Payload: fd.Messages().ByName("PayloadP"),
			User:    fd.Messages().ByName("UserP"),
		}
		s.users = s.Payload.Fields().ByName("users")
		s.id = s.User.Fields().ByName("id")
		s.name = s.User.Fields().ByName("name")
		s.role = s.User.Fields().ByName("role")
		schema = s
	})
	return schema, schemaErr
}

// NewMessage returns an empty PayloadP message.
func (s *ProtoSchema) NewMessage() *dynamicpb.Message {
	return dynamicpb.NewMessage(s.Payload)
}

// ToProto converts p into a PayloadP message.
func (s *ProtoSchema) ToProto(p Payload) *dynamicpb.Message {
	msg := s.NewMessage()
	list := msg.Mutable(s.users).List()
	for _, u := range p.Users {
		v := list.NewElement()
		m := v.Message()
		m.Set(s.id, protoreflect.ValueOfInt64(u.ID))
		m.Set(s.name, protoreflect.ValueOfString(u.Name))
		m.Set(s.role, protoreflect.ValueOfString(u.Role))
		list.Append(v)
	}
	return msg
}

// FromProto converts a PayloadP message back into a Payload.
func (s *ProtoSchema) FromProto(msg protoreflect.Message) (Payload, error) {
	if msg.Descriptor().FullName() != s.Payload.FullName() {
		return Payload{}, fmt.Errorf("payload: unexpected message %s", msg.Descriptor().FullName())
	}
	list := msg.Get(s.users).List()
	out := Payload{Users: make([]User, list.Len())}
	for i := 0; i < list.Len(); i++ {
		m := list.Get(i).Message()
		out.Users[i] = User{
			ID:   m.Get(s.id).Int(),
			Name: m.Get(s.name).String(),
			Role: m.Get(s.role).String(),
		}
	}
	return out, nil
}

// UnmarshalProto decodes a PayloadP wire message into a Payload.
func (s *ProtoSchema) UnmarshalProto(b []byte) (Payload, error) {
	msg := s.NewMessage()
	if err := proto.Unmarshal(b, msg); err != nil {
		return Payload{}, fmt.Errorf("payload: unmarshal proto: %w", err)
	}
	return s.FromProto(msg)
}
