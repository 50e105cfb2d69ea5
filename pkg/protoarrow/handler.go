// Package protoarrow converts between protobuf wire-format messages and
// Apache Arrow record batches using only a message's descriptor — no
// generated Go struct type is required, since messages are
// instantiated at runtime via dynamicpb.
package protoarrow

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// MessageHandler binds one message descriptor to the field plan and
// Arrow schema derived from it. Plan and schema are computed once at
// construction and reused for every subsequent Encode/Decode call, so
// the two directions can never disagree about a field's shape.
type MessageHandler struct {
	descriptor protoreflect.MessageDescriptor
	plan       fieldPlan
	schema     *arrow.Schema
	mem        memory.Allocator
}

// NewMessageHandler builds a handler for md. It returns an error
// instead of panicking when the descriptor contains a field shape the
// plan builder cannot represent, since malformed or unsupported input
// schemas are expected to be reported, not fatal.
func NewMessageHandler(md protoreflect.MessageDescriptor, mem memory.Allocator) (*MessageHandler, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	plan, err := newFieldPlan(md)
	if err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, len(plan))
	for i, entry := range plan {
		fields[i] = entry.arrowField
	}
	return &MessageHandler{
		descriptor: md,
		plan:       plan,
		schema:     arrow.NewSchema(fields, nil),
		mem:        mem,
	}, nil
}

// Schema returns the Arrow schema derived from the bound descriptor.
func (h *MessageHandler) Schema() *arrow.Schema { return h.schema }

// Encode parses each element of rows as a wire-format message of the
// bound descriptor and assembles one Arrow record batch, one row per
// input message, columns in field-plan order.
func (h *MessageHandler) Encode(rows [][]byte) (arrow.Record, error) {
	messages := make([]protoreflect.Message, len(rows))
	for i, row := range rows {
		msg := dynamicpb.NewMessage(h.descriptor)
		if err := proto.Unmarshal(row, msg.Interface()); err != nil {
			return nil, &DecodeError{Row: i, Cause: err}
		}
		messages[i] = msg
	}

	cols := make([]arrow.Array, 0, len(h.plan))
	for _, entry := range h.plan {
		col, err := entry.encode(h.mem, messages)
		if err != nil {
			for _, built := range cols {
				built.Release()
			}
			return nil, err
		}
		cols = append(cols, col)
	}

	record := array.NewRecord(h.schema, cols, int64(len(rows)))
	for _, col := range cols {
		col.Release()
	}
	return record, nil
}

// Decode reconstructs one wire-encoded message per row of batch.
// Fields with no decode behavior (enum fields and the Date/Timestamp
// composites) are documented no-ops:
// they are never written back onto the reconstructed message.
func (h *MessageHandler) Decode(batch arrow.Record) ([][]byte, error) {
	numRows := int(batch.NumRows())
	messages := make([]protoreflect.Message, numRows)
	for i := range messages {
		messages[i] = dynamicpb.NewMessage(h.descriptor)
	}

	schema := batch.Schema()
	for _, entry := range h.plan {
		if entry.bindDecode == nil {
			continue
		}
		indices := schema.FieldIndices(string(entry.descriptor.Name()))
		if len(indices) == 0 {
			continue
		}
		col := batch.Column(indices[0])
		setRow, err := entry.bindDecode(col)
		if err != nil {
			return nil, err
		}
		for row := 0; row < numRows; row++ {
			if col.IsNull(row) {
				continue
			}
			setRow(row, messages[row])
		}
	}

	out := make([][]byte, numRows)
	for i, msg := range messages {
		bs, err := proto.Marshal(msg.Interface())
		if err != nil {
			return nil, &DecodeError{Row: i, Cause: err}
		}
		out[i] = bs
	}
	return out, nil
}
