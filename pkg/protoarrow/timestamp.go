package protoarrow

import "github.com/apache/arrow-go/v18/arrow"

// timestampType is the Arrow type backing the Timestamp composite:
// nanoseconds since the Unix epoch, UTC, matching the wire message's
// (seconds, nanos) pair with no timezone.
var timestampType arrow.DataType = &arrow.TimestampType{Unit: arrow.Nanosecond}

// secondsNanosToTimestamp combines a (seconds, nanos) pair, as carried
// by google.protobuf.Timestamp and its structural equivalents, into a
// single nanoseconds-since-epoch value.
func secondsNanosToTimestamp(seconds int64, nanos int32) arrow.Timestamp {
	return arrow.Timestamp(seconds*1_000_000_000 + int64(nanos))
}
