package protoarrow

import (
	"testing"

	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	_ "google.golang.org/genproto/googleapis/type/date"
	_ "google.golang.org/protobuf/types/known/timestamppb"
)

// widgetFileDescriptorProto hand-builds a file descriptor covering one
// field of every supported scalar kind, an enum, a repeated field (to
// exercise the skip path), and both composite shapes recognized by
// full type name against the real well-known types.
func widgetFileDescriptorProto() *descriptorpb.FileDescriptorProto {
	str := func(s string) *string { return &s }
	i32 := func(n int32) *int32 { return &n }
	typ := func(t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto_Type { return &t }
	label := func(l descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto_Label { return &l }

	optional := label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)
	repeated := label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED)

	field := func(name string, num int32, t descriptorpb.FieldDescriptorProto_Type, lbl *descriptorpb.FieldDescriptorProto_Label, typeName string) *descriptorpb.FieldDescriptorProto {
		fd := &descriptorpb.FieldDescriptorProto{
			Name:     str(name),
			Number:   i32(num),
			Type:     typ(t),
			Label:    lbl,
			JsonName: str(name),
		}
		if typeName != "" {
			fd.TypeName = str(typeName)
		}
		return fd
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    str("testpb/widget.proto"),
		Package: str("testpb"),
		Syntax:  str("proto3"),
		Dependency: []string{
			"google/type/date.proto",
			"google/protobuf/timestamp.proto",
		},
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: str("Status"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: str("UNKNOWN"), Number: i32(0)},
					{Name: str("ACTIVE"), Number: i32(1)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: str("Widget"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("bool_field", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL, optional, ""),
					field("int32_field", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
					field("uint32_field", 3, descriptorpb.FieldDescriptorProto_TYPE_UINT32, optional, ""),
					field("int64_field", 4, descriptorpb.FieldDescriptorProto_TYPE_INT64, optional, ""),
					field("uint64_field", 5, descriptorpb.FieldDescriptorProto_TYPE_UINT64, optional, ""),
					field("float_field", 6, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional, ""),
					field("double_field", 7, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, optional, ""),
					field("string_field", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
					field("bytes_field", 9, descriptorpb.FieldDescriptorProto_TYPE_BYTES, optional, ""),
					field("status", 10, descriptorpb.FieldDescriptorProto_TYPE_ENUM, optional, ".testpb.Status"),
					field("created", 11, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, optional, ".google.type.Date"),
					field("updated_at", 12, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, optional, ".google.protobuf.Timestamp"),
					field("tags", 13, descriptorpb.FieldDescriptorProto_TYPE_STRING, repeated, ""),
				},
			},
			{
				// Empty has no field the plan builder can represent:
				// its sole field is repeated, so the plan is empty and
				// Encode must still produce a record with the right
				// row count and zero columns.
				Name: str("Empty"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("items", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, repeated, ""),
				},
			},
			{
				// PlainDate has the exact field shape of google.type.Date
				// without being linked to it by name, exercising the
				// structural-fallback half of composite recognition.
				Name: str("PlainDate"),
				Field: []*descriptorpb.FieldDescriptorProto{
					field("year", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
					field("month", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
					field("day", 3, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
				},
			},
		},
	}
}

// buildPlainDateDescriptor links the PlainDate message from
// widgetFileDescriptorProto, which classifies as a Date composite only
// through its field shape, not its type name.
func buildPlainDateDescriptor(t *testing.T) protoreflect.MessageDescriptor {
	t.Helper()
	fd, err := protodesc.NewFile(widgetFileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		t.Fatalf("linking widget.proto: %v", err)
	}
	md := fd.Messages().ByName("PlainDate")
	if md == nil {
		t.Fatal("PlainDate message not found in linked file")
	}
	return md
}

// buildEmptyDescriptor links the Empty message from widgetFileDescriptorProto,
// whose only field the plan builder skips entirely.
func buildEmptyDescriptor(t *testing.T) protoreflect.MessageDescriptor {
	t.Helper()
	fd, err := protodesc.NewFile(widgetFileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		t.Fatalf("linking widget.proto: %v", err)
	}
	md := fd.Messages().ByName("Empty")
	if md == nil {
		t.Fatal("Empty message not found in linked file")
	}
	return md
}

// buildWidgetDescriptor links widgetFileDescriptorProto against the
// global registry, which already carries google/type/date.proto and
// google/protobuf/timestamp.proto because their generated packages
// register themselves on import.
func buildWidgetDescriptor(t *testing.T) protoreflect.MessageDescriptor {
	t.Helper()
	fd, err := protodesc.NewFile(widgetFileDescriptorProto(), protoregistry.GlobalFiles)
	if err != nil {
		t.Fatalf("linking widget.proto: %v", err)
	}
	md := fd.Messages().ByName("Widget")
	if md == nil {
		t.Fatal("Widget message not found in linked file")
	}
	return md
}
