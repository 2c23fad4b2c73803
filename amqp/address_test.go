package amqp

import (
	"strings"
	"testing"
)

// Scenario 3: missing group.id.
func TestParseAddress_MissingGroupID(t *testing.T) {
	_, _, err := ParseAddress("orders")
	if err == nil {
		t.Fatal("expected error for missing group.id")
	}
	if err.Condition != ConditionNoGroupID {
		t.Errorf("condition = %q, want %q", err.Condition, ConditionNoGroupID)
	}
}

func TestParseAddress_Valid(t *testing.T) {
	topic, group, err := ParseAddress("orders/group.id/g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if topic != "orders" || group != "g1" {
		t.Fatalf("got topic=%q group=%q, want orders/g1", topic, group)
	}
}

func TestParseAddress_EmptyHalves(t *testing.T) {
	if _, _, err := ParseAddress("/group.id/g1"); err == nil || err.Condition != ConditionWrongFilter {
		t.Fatalf("empty topic: got %v, want ConditionWrongFilter", err)
	}
	if _, _, err := ParseAddress("orders/group.id/"); err == nil || err.Condition != ConditionWrongFilter {
		t.Fatalf("empty group: got %v, want ConditionWrongFilter", err)
	}
}

// Round-trip law: for any (topic, group) with neither containing
// "/group.id/", parse(format(topic, group)) == (topic, group).
func TestAddressRoundTrip(t *testing.T) {
	cases := []struct{ topic, group string }{
		{"orders", "g1"},
		{"a.b.c", "consumer-group-1"},
		{"topic-with-dashes", "group_with_underscores"},
	}
	for _, c := range cases {
		addr := FormatAddress(c.topic, c.group)
		topic, group, err := ParseAddress(addr)
		if err != nil {
			t.Fatalf("ParseAddress(%q): unexpected error %v", addr, err)
		}
		if topic != c.topic || group != c.group {
			t.Errorf("round trip: got (%q,%q), want (%q,%q)", topic, group, c.topic, c.group)
		}
	}
}

func TestAddressRoundTrip_EmbeddedSeparatorSplitsAtFirstMatch(t *testing.T) {
	// Sanity check on the round-trip law's precondition: a topic or group
	// containing the separator breaks the bijection, as documented.
	addr := FormatAddress("a/group.id/b", "g1")
	topic, _, err := ParseAddress(addr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(topic, groupIDMatch) {
		t.Fatalf("first match wins; got topic %q", topic)
	}
}

// Scenario 4: offset filter without partition.
func TestValidateFilters_OffsetWithoutPartition(t *testing.T) {
	_, err := ValidateFilters(map[string]any{"offset": int64(42)})
	if err == nil || err.Condition != ConditionNoPartitionFilter {
		t.Fatalf("got %v, want ConditionNoPartitionFilter", err)
	}
}

func TestValidateFilters_WrongPartitionType(t *testing.T) {
	_, err := ValidateFilters(map[string]any{"partition": "not-an-int"})
	if err == nil || err.Condition != ConditionWrongPartitionFilter {
		t.Fatalf("got %v, want ConditionWrongPartitionFilter", err)
	}
}

func TestValidateFilters_WrongOffsetType(t *testing.T) {
	_, err := ValidateFilters(map[string]any{"partition": int32(0), "offset": "nope"})
	if err == nil || err.Condition != ConditionWrongOffsetFilter {
		t.Fatalf("got %v, want ConditionWrongOffsetFilter", err)
	}
}

func TestValidateFilters_NegativePartition(t *testing.T) {
	_, err := ValidateFilters(map[string]any{"partition": int32(-1)})
	if err == nil || err.Condition != ConditionWrongFilter {
		t.Fatalf("got %v, want ConditionWrongFilter", err)
	}
}

func TestValidateFilters_NegativeOffset(t *testing.T) {
	_, err := ValidateFilters(map[string]any{"partition": int32(0), "offset": int64(-1)})
	if err == nil || err.Condition != ConditionWrongFilter {
		t.Fatalf("got %v, want ConditionWrongFilter", err)
	}
}

func TestValidateFilters_ValidBoth(t *testing.T) {
	f, err := ValidateFilters(map[string]any{"partition": int32(3), "offset": int64(100)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Partition == nil || *f.Partition != 3 {
		t.Fatalf("partition = %v, want 3", f.Partition)
	}
	if f.Offset == nil || *f.Offset != 100 {
		t.Fatalf("offset = %v, want 100", f.Offset)
	}
}

func TestValidateFilters_None(t *testing.T) {
	f, err := ValidateFilters(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Partition != nil || f.Offset != nil {
		t.Fatalf("expected no filters set, got %+v", f)
	}
}
