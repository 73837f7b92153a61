package pipeline

import (
	"context"
	"time"
)

// RawRequest is a forecast request as consumed from Kafka, before parsing.
// Commit, when set, acknowledges the message offset after processing.
type RawRequest struct {
	Key       []byte
	Value     []byte
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Headers   map[string]string
	Commit    func(ctx context.Context) error
}

// OutputEvent is a serialized assessment ready for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
