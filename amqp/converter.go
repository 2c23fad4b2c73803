package amqp

import (
	goamqp "github.com/Azure/go-amqp"

	"kbridge/kafka"
)

// Header keys the converter attaches to every outgoing message, so a
// receiver can recover the Kafka coordinates of a delivery without parsing
// the link address.
const (
	PropertyTopic     = "topic"
	PropertyPartition = "partition"
	PropertyKey       = "key"
	PropertyOffset    = "offset"
)

// Converter turns a Kafka record into the AMQP message a sink endpoint
// hands to its Link. It is a pure function of its input: no I/O, no
// endpoint state, so it needs no interface beyond documenting the shape a
// caller can substitute (a test double, or a future non-default codec).
type Converter interface {
	ToAMQP(rec kafka.Record) (*goamqp.Message, error)
}

// DefaultConverter carries the record's value as the AMQP body and its
// Kafka coordinates and headers as application properties.
type DefaultConverter struct{}

func (DefaultConverter) ToAMQP(rec kafka.Record) (*goamqp.Message, error) {
	props := map[string]any{
		PropertyTopic:     rec.Topic,
		PropertyPartition: rec.Partition,
		PropertyOffset:    rec.Offset,
	}
	if rec.Key != "" {
		props[PropertyKey] = rec.Key
	}
	for k, v := range rec.Headers {
		props[k] = v
	}

	msg := &goamqp.Message{
		Data: [][]byte{rec.Value},
		ApplicationProperties: props,
	}
	return msg, nil
}
