package protoarrow

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// rowSetter applies one decoded column value, for one row, onto a
// message already selected by row index. It is produced once per
// field per record batch (after the column's Arrow type has been
// checked), not once per row.
type rowSetter func(row int, msg protoreflect.Message)

// fieldPlanEntry is the single per-field unit shared by encode and
// decode, closing the Design Notes' "reflection-heavy dispatch" gap:
// both directions consult the same arrowField/classification, so they
// cannot disagree about what a field looks like on the wire.
type fieldPlanEntry struct {
	descriptor protoreflect.FieldDescriptor
	arrowField arrow.Field

	// encode appends one column entry per message in the input slice,
	// in order, and returns the finished array. An error means no
	// array is returned; the caller is responsible for releasing any
	// other columns it already built for the same row batch.
	encode func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error)

	// bindDecode type-checks a column once and returns a row setter.
	// nil means this field is a documented no-op on decode (enum fields
	// and the Date/Timestamp composites).
	bindDecode func(col arrow.Array) (rowSetter, error)
}

// fieldPlan is the ordered list of field plan entries derived from a
// message descriptor, shared verbatim between Encode and Decode.
type fieldPlan []*fieldPlanEntry

// newFieldPlan walks a message descriptor's declared fields in
// declaration order and builds one plan entry per supported field.
// Repeated fields, map fields, nested message fields that are not a
// Date or Timestamp composite, and fields of an unrecognized kind are
// silently skipped, matching the wire format's own tolerance for
// schema evolution: a reader that doesn't understand a field simply
// does not populate a column for it.
func newFieldPlan(md protoreflect.MessageDescriptor) (fieldPlan, error) {
	fields := md.Fields()
	plan := make(fieldPlan, 0, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if fd.IsList() || fd.IsMap() {
			continue
		}
		entry, err := planField(fd)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			plan = append(plan, entry)
		}
	}
	return plan, nil
}

// planField dispatches a single field descriptor to its converter,
// following the kind table in the field converter design. Composite
// message fields are classified before the generic message-kind
// fallback runs.
func planField(fd protoreflect.FieldDescriptor) (*fieldPlanEntry, error) {
	name := string(fd.Name())

	switch fd.Kind() {
	case protoreflect.BoolKind:
		return planBoolField(fd, name), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return planInt32Field(fd, name), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return planUint32Field(fd, name), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return planInt64Field(fd, name), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return planUint64Field(fd, name), nil
	case protoreflect.FloatKind:
		return planFloat32Field(fd, name), nil
	case protoreflect.DoubleKind:
		return planFloat64Field(fd, name), nil
	case protoreflect.StringKind:
		return planStringField(fd, name), nil
	case protoreflect.BytesKind:
		return planBytesField(fd, name), nil
	case protoreflect.EnumKind:
		return planEnumField(fd, name), nil
	case protoreflect.MessageKind, protoreflect.GroupKind:
		switch classifyComposite(fd.Message()) {
		case compositeDate:
			return planDateField(fd, name), nil
		case compositeTimestamp:
			return planTimestampField(fd, name), nil
		default:
			return nil, nil // nested messages outside Date/Timestamp: out of core scope
		}
	default:
		return nil, nil
	}
}

type composite int

const (
	compositeNone composite = iota
	compositeDate
	compositeTimestamp
)

// classifyComposite recognizes the Date and Timestamp composite
// shapes, first by well-known full type name, then structurally by
// exact field-name/kind set, so messages that merely look like
// google.type.Date or google.protobuf.Timestamp (without being linked
// to those descriptors) are still recognized.
func classifyComposite(md protoreflect.MessageDescriptor) composite {
	switch md.FullName() {
	case "google.type.Date":
		return compositeDate
	case "google.protobuf.Timestamp":
		return compositeTimestamp
	}

	fields := md.Fields()
	names := make(map[string]protoreflect.Kind, fields.Len())
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		names[string(fd.Name())] = fd.Kind()
	}

	if len(names) == 3 {
		y, yok := names["year"]
		m, mok := names["month"]
		d, dok := names["day"]
		if yok && mok && dok &&
			y == protoreflect.Int32Kind && m == protoreflect.Int32Kind && d == protoreflect.Int32Kind {
			return compositeDate
		}
	}
	if len(names) == 2 {
		s, sok := names["seconds"]
		n, nok := names["nanos"]
		if sok && nok && s == protoreflect.Int64Kind && n == protoreflect.Int32Kind {
			return compositeTimestamp
		}
	}
	return compositeNone
}

func planBoolField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.FixedWidthTypes.Boolean, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newBoolColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).Bool())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Boolean)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Boolean", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfBool(arr.Value(row)))
			}, nil
		},
	}
}

func planInt32Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newInt32ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(int32(msg.Get(fd).Int()))
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Int32)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Int32", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfInt32(arr.Value(row)))
			}, nil
		},
	}
}

func planUint32Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newUint32ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(uint32(msg.Get(fd).Uint()))
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Uint32)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Uint32", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfUint32(arr.Value(row)))
			}, nil
		},
	}
}

func planInt64Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newInt64ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).Int())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Int64)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Int64", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfInt64(arr.Value(row)))
			}, nil
		},
	}
}

func planUint64Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint64, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newUint64ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).Uint())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Uint64)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Uint64", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfUint64(arr.Value(row)))
			}, nil
		},
	}
}

func planFloat32Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float32, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newFloat32ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(float32(msg.Get(fd).Float()))
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Float32)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Float32", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfFloat32(arr.Value(row)))
			}, nil
		},
	}
}

func planFloat64Field(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newFloat64ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).Float())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Float64)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Float64", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfFloat64(arr.Value(row)))
			}, nil
		},
	}
}

func planStringField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newStringColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).String())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.String)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "String", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				msg.Set(fd, protoreflect.ValueOfString(arr.Value(row)))
			}, nil
		},
	}
}

func planBytesField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.BinaryTypes.Binary, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newBinaryColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(msg.Get(fd).Bytes())
			}
			return b.build(), nil
		},
		bindDecode: func(col arrow.Array) (rowSetter, error) {
			arr, ok := col.(*array.Binary)
			if !ok {
				return nil, &SchemaMismatchError{Field: name, Expected: "Binary", Found: col.DataType().String()}
			}
			return func(row int, msg protoreflect.Message) {
				// copy out of the array's backing buffer: the source
				// array may be released once decode finishes.
				msg.Set(fd, protoreflect.ValueOfBytes(append([]byte{}, arr.Value(row)...)))
			}, nil
		},
	}
}

// planEnumField reads the enum's numeric tag, defaulting to 0 for
// unset fields. Decode never injects enum values back onto a message
// (a documented no-op), so bindDecode is nil.
func planEnumField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int32, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newInt32ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendAbsent()
					continue
				}
				b.appendValue(int32(msg.Get(fd).Enum()))
			}
			return b.build(), nil
		},
		bindDecode: nil,
	}
}

// planDateField encodes the Date composite (year, month, day) to a
// Date32 column of days since the Unix epoch, null when the field is
// unset. An all-zero triple is not absence: it is the epoch day 0. A
// non-zero triple that is not a real calendar date fails the whole
// encode with InvalidDateError, since there is no null-worthy way to
// represent "the caller sent a date that cannot exist". Decode never
// injects message-kind fields back (a documented no-op), so
// bindDecode is nil.
func planDateField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	md := fd.Message()
	yearFd := md.Fields().ByName("year")
	monthFd := md.Fields().ByName("month")
	dayFd := md.Fields().ByName("day")

	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: date32Type, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newDate32ColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendNull()
					continue
				}
				sub := msg.Get(fd).Message()
				year := int32(sub.Get(yearFd).Int())
				month := int32(sub.Get(monthFd).Int())
				day := int32(sub.Get(dayFd).Int())
				if year == 0 && month == 0 && day == 0 {
					b.appendValue(0)
					continue
				}
				if !isValidCivilDate(year, month, day) {
					b.abandon()
					return nil, &InvalidDateError{Year: year, Month: month, Day: day}
				}
				b.appendValue(civilToDays(year, month, day))
			}
			return b.build(), nil
		},
		bindDecode: nil,
	}
}

// planTimestampField encodes the Timestamp composite (seconds, nanos)
// to a nanosecond Timestamp column, null when the field is unset.
// Decode never injects message-kind fields back, so bindDecode is nil.
func planTimestampField(fd protoreflect.FieldDescriptor, name string) *fieldPlanEntry {
	md := fd.Message()
	secondsFd := md.Fields().ByName("seconds")
	nanosFd := md.Fields().ByName("nanos")

	return &fieldPlanEntry{
		descriptor: fd,
		arrowField: arrow.Field{Name: name, Type: timestampType, Nullable: true},
		encode: func(mem memory.Allocator, messages []protoreflect.Message) (arrow.Array, error) {
			b := newTimestampColumnBuilder(mem)
			for _, msg := range messages {
				if !msg.Has(fd) {
					b.appendNull()
					continue
				}
				sub := msg.Get(fd).Message()
				seconds := sub.Get(secondsFd).Int()
				nanos := int32(sub.Get(nanosFd).Int())
				b.appendValue(secondsNanosToTimestamp(seconds, nanos))
			}
			return b.build(), nil
		},
		bindDecode: nil,
	}
}
