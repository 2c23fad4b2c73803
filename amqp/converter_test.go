package amqp

import (
	"testing"

	"kbridge/kafka"
)

func TestDefaultConverter_ToAMQP(t *testing.T) {
	rec := kafka.Record{
		Topic:     "orders",
		Partition: 2,
		Offset:    99,
		Key:       "k1",
		Value:     []byte("payload"),
		Headers:   map[string][]byte{"trace-id": []byte("abc")},
	}

	msg, err := DefaultConverter{}.ToAMQP(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.Data) != 1 || string(msg.Data[0]) != "payload" {
		t.Fatalf("body = %v, want [payload]", msg.Data)
	}
	if msg.ApplicationProperties[PropertyTopic] != "orders" {
		t.Errorf("topic property = %v", msg.ApplicationProperties[PropertyTopic])
	}
	if msg.ApplicationProperties[PropertyPartition] != int32(2) {
		t.Errorf("partition property = %v", msg.ApplicationProperties[PropertyPartition])
	}
	if msg.ApplicationProperties[PropertyOffset] != int64(99) {
		t.Errorf("offset property = %v", msg.ApplicationProperties[PropertyOffset])
	}
	if msg.ApplicationProperties[PropertyKey] != "k1" {
		t.Errorf("key property = %v", msg.ApplicationProperties[PropertyKey])
	}
	if v, ok := msg.ApplicationProperties["trace-id"].([]byte); !ok || string(v) != "abc" {
		t.Errorf("trace-id header not carried through: %v", msg.ApplicationProperties["trace-id"])
	}
}

func TestDefaultConverter_EmptyKeyOmitted(t *testing.T) {
	rec := kafka.Record{Topic: "orders", Partition: 0, Offset: 0, Value: []byte("x")}
	msg, err := DefaultConverter{}.ToAMQP(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := msg.ApplicationProperties[PropertyKey]; ok {
		t.Errorf("expected no key property for empty key")
	}
}
