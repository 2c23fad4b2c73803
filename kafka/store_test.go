package kafka

import "testing"

func TestStore_PutRemove(t *testing.T) {
	s := NewStore[Record]()
	s.Put("t1", Record{Topic: "orders", Offset: 5})

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	rec, ok := s.Remove("t1")
	if !ok {
		t.Fatal("expected t1 present")
	}
	if rec.Offset != 5 {
		t.Errorf("Offset = %d, want 5", rec.Offset)
	}
	if s.Len() != 0 {
		t.Errorf("Len after Remove = %d, want 0", s.Len())
	}

	if _, ok := s.Remove("t1"); ok {
		t.Error("second Remove should report absent")
	}
}

func TestStore_Clear(t *testing.T) {
	s := NewStore[Record]()
	s.Put("a", Record{})
	s.Put("b", Record{})
	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", s.Len())
	}
}
