package amqp

import (
	"fmt"
	"strings"

	goamqp "github.com/Azure/go-amqp"
)

// groupIDMatch is the literal separator the remote source address must
// contain: "<topic>/group.id/<consumer-group-id>".
const groupIDMatch = "/group.id/"

// ParseAddress splits a remote source address into (topic, groupID).
//
// Returns a non-nil *AddressError on any of:
//   - the address doesn't contain "/group.id/" at all (ConditionNoGroupID)
//   - the topic half or the group id half is empty (ConditionWrongFilter)
func ParseAddress(address string) (topic, groupID string, addrErr *AddressError) {
	idx := strings.Index(address, groupIDMatch)
	if idx == -1 {
		return "", "", &AddressError{Condition: ConditionNoGroupID, Description: "mandatory group.id not specified in the address"}
	}

	topic = address[:idx]
	groupID = address[idx+len(groupIDMatch):]

	if topic == "" || groupID == "" {
		return "", "", &AddressError{Condition: ConditionWrongFilter, Description: "topic and group id must be non-empty"}
	}
	return topic, groupID, nil
}

// FormatAddress is ParseAddress's inverse: for any (topic, group) where
// neither contains "/group.id/", ParseAddress(FormatAddress(topic, group))
// == (topic, group).
func FormatAddress(topic, groupID string) string {
	return fmt.Sprintf("%s%s%s", topic, groupIDMatch, groupID)
}

// AddressError is a condition/description pair; SinkEndpoint turns it into
// a *goamqp.Error via NewError when it closes a link.
type AddressError struct {
	Condition   goamqp.ErrCond
	Description string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s: %s", e.Condition, e.Description)
}

// Filters holds the validated, typed values of the two recognized AMQP
// source filters.
type Filters struct {
	Partition *int32
	Offset    *int64
}

// ValidateFilters checks the two recognized source filters, returning the
// first matching error: an unparseable partition or offset value, an offset
// filter given without a partition filter, or either value negative. Filter
// values arrive as opaque dynamically-typed data (an untyped map, as a real
// AMQP decoder would hand back filter values) and must be checked
// explicitly, never coerced.
func ValidateFilters(raw map[string]any) (Filters, *AddressError) {
	var f Filters

	partitionRaw, hasPartition := raw["partition"]
	offsetRaw, hasOffset := raw["offset"]

	if hasPartition {
		p, ok := asInt32(partitionRaw)
		if !ok {
			return f, &AddressError{Condition: ConditionWrongPartitionFilter, Description: "wrong partition filter"}
		}
		f.Partition = &p
	}

	if hasOffset {
		o, ok := asInt64(offsetRaw)
		if !ok {
			return f, &AddressError{Condition: ConditionWrongOffsetFilter, Description: "wrong offset filter"}
		}
		f.Offset = &o
	}

	if f.Offset != nil && f.Partition == nil {
		return f, &AddressError{Condition: ConditionNoPartitionFilter, Description: "no partition filter specified"}
	}

	if f.Partition != nil && *f.Partition < 0 {
		return f, &AddressError{Condition: ConditionWrongFilter, Description: "wrong filter"}
	}

	if f.Offset != nil && *f.Offset < 0 {
		return f, &AddressError{Condition: ConditionWrongFilter, Description: "wrong filter"}
	}

	return f, nil
}

// asInt32 accepts exactly the integer-shaped dynamic types a decoded AMQP
// "int" filter value would arrive as; it deliberately does not accept
// strings or floats, since that would be coercion rather than validation.
func asInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		return int32(n), true
	case int16:
		return int32(n), true
	case int8:
		return int32(n), true
	default:
		return 0, false
	}
}

// asInt64 accepts exactly the integer-shaped dynamic types a decoded AMQP
// "long" filter value would arrive as.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
