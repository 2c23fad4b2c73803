package kafka

// Record is the envelope a worker hands off to a sink endpoint's
// dispatcher through the keyed Store.
type Record struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       string
	Value     []byte
	Headers   map[string][]byte
}

// Token is a delivery token: a tag unique within one endpoint's lifetime,
// referencing exactly one Record by key in that endpoint's Store.
type Token = string
