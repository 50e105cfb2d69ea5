package protoarrow

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Every scalar column builder below exposes the same two operations:
// appendValue for a present field, appendAbsent (the zero value) for an
// unset one. The Date and Timestamp composite builders expose appendNull
// in place of appendAbsent. Exactly one append is called per source
// message, so every built array has one entry per input row regardless
// of how many rows left the field unset.

type boolColumnBuilder struct{ b *array.BooleanBuilder }

func newBoolColumnBuilder(mem memory.Allocator) *boolColumnBuilder {
	return &boolColumnBuilder{b: array.NewBooleanBuilder(mem)}
}
func (c *boolColumnBuilder) appendValue(v bool) { c.b.Append(v) }
func (c *boolColumnBuilder) appendAbsent()      { c.b.Append(false) }
func (c *boolColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type int32ColumnBuilder struct{ b *array.Int32Builder }

func newInt32ColumnBuilder(mem memory.Allocator) *int32ColumnBuilder {
	return &int32ColumnBuilder{b: array.NewInt32Builder(mem)}
}
func (c *int32ColumnBuilder) appendValue(v int32) { c.b.Append(v) }
func (c *int32ColumnBuilder) appendAbsent()       { c.b.Append(0) }
func (c *int32ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type uint32ColumnBuilder struct{ b *array.Uint32Builder }

func newUint32ColumnBuilder(mem memory.Allocator) *uint32ColumnBuilder {
	return &uint32ColumnBuilder{b: array.NewUint32Builder(mem)}
}
func (c *uint32ColumnBuilder) appendValue(v uint32) { c.b.Append(v) }
func (c *uint32ColumnBuilder) appendAbsent()        { c.b.Append(0) }
func (c *uint32ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type int64ColumnBuilder struct{ b *array.Int64Builder }

func newInt64ColumnBuilder(mem memory.Allocator) *int64ColumnBuilder {
	return &int64ColumnBuilder{b: array.NewInt64Builder(mem)}
}
func (c *int64ColumnBuilder) appendValue(v int64) { c.b.Append(v) }
func (c *int64ColumnBuilder) appendAbsent()        { c.b.Append(0) }
func (c *int64ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type uint64ColumnBuilder struct{ b *array.Uint64Builder }

func newUint64ColumnBuilder(mem memory.Allocator) *uint64ColumnBuilder {
	return &uint64ColumnBuilder{b: array.NewUint64Builder(mem)}
}
func (c *uint64ColumnBuilder) appendValue(v uint64) { c.b.Append(v) }
func (c *uint64ColumnBuilder) appendAbsent()        { c.b.Append(0) }
func (c *uint64ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type float32ColumnBuilder struct{ b *array.Float32Builder }

func newFloat32ColumnBuilder(mem memory.Allocator) *float32ColumnBuilder {
	return &float32ColumnBuilder{b: array.NewFloat32Builder(mem)}
}
func (c *float32ColumnBuilder) appendValue(v float32) { c.b.Append(v) }
func (c *float32ColumnBuilder) appendAbsent()          { c.b.Append(0) }
func (c *float32ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

type float64ColumnBuilder struct{ b *array.Float64Builder }

func newFloat64ColumnBuilder(mem memory.Allocator) *float64ColumnBuilder {
	return &float64ColumnBuilder{b: array.NewFloat64Builder(mem)}
}
func (c *float64ColumnBuilder) appendValue(v float64) { c.b.Append(v) }
func (c *float64ColumnBuilder) appendAbsent()          { c.b.Append(0) }
func (c *float64ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

// stringColumnBuilder drives array.StringBuilder, which already keeps
// the offsets buffer and value buffer in lockstep: Append records a
// new offset and extends the value buffer, AppendEmptyValue records a
// new offset with no extension.
type stringColumnBuilder struct{ b *array.StringBuilder }

func newStringColumnBuilder(mem memory.Allocator) *stringColumnBuilder {
	return &stringColumnBuilder{b: array.NewStringBuilder(mem)}
}
func (c *stringColumnBuilder) appendValue(v string) { c.b.Append(v) }
func (c *stringColumnBuilder) appendAbsent()         { c.b.AppendEmptyValue() }
func (c *stringColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

// binaryColumnBuilder backs bytes fields. Nested message fields that
// are not Date or Timestamp composites get no column at all (planField
// skips them), so this builder never holds serialized sub-messages.
type binaryColumnBuilder struct{ b *array.BinaryBuilder }

func newBinaryColumnBuilder(mem memory.Allocator) *binaryColumnBuilder {
	return &binaryColumnBuilder{b: array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)}
}
func (c *binaryColumnBuilder) appendValue(v []byte) { c.b.Append(v) }
func (c *binaryColumnBuilder) appendAbsent()         { c.b.AppendEmptyValue() }
func (c *binaryColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

// date32ColumnBuilder backs the Date composite (year/month/day, days
// since epoch). Absent dates append a null entry rather than a
// fabricated day count; a structurally invalid date is never appended,
// the caller abandons the builder and returns InvalidDateError.
type date32ColumnBuilder struct{ b *array.Date32Builder }

func newDate32ColumnBuilder(mem memory.Allocator) *date32ColumnBuilder {
	return &date32ColumnBuilder{b: array.NewDate32Builder(mem)}
}
func (c *date32ColumnBuilder) appendValue(days int32) { c.b.Append(arrow.Date32(days)) }
func (c *date32ColumnBuilder) appendNull()             { c.b.AppendNull() }
func (c *date32ColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}

// abandon releases the builder without producing an array, for when
// encoding a row fails partway through a column.
func (c *date32ColumnBuilder) abandon() { c.b.Release() }

// timestampColumnBuilder backs the Timestamp composite (seconds/nanos,
// combined into nanoseconds since epoch).
type timestampColumnBuilder struct{ b *array.TimestampBuilder }

func newTimestampColumnBuilder(mem memory.Allocator) *timestampColumnBuilder {
	return &timestampColumnBuilder{b: array.NewTimestampBuilder(mem, timestampType.(*arrow.TimestampType))}
}
func (c *timestampColumnBuilder) appendValue(ts arrow.Timestamp) { c.b.Append(ts) }
func (c *timestampColumnBuilder) appendNull()                     { c.b.AppendNull() }
func (c *timestampColumnBuilder) build() arrow.Array {
	arr := c.b.NewArray()
	c.b.Release()
	return arr
}
