package kafka

import (
	"testing"
	"time"
)

func TestBus_FIFOOrder(t *testing.T) {
	b := NewBus()
	done := make(chan struct{})
	var got []Token

	finished := make(chan struct{})
	go func() {
		b.Run(done, func(m Message) {
			got = append(got, m.Body)
			if len(got) == 3 {
				close(finished)
			}
		})
	}()

	b.Publish(Message{Body: "a", Headers: map[string]string{HeaderRequest: RequestSend}})
	b.Publish(Message{Body: "b", Headers: map[string]string{HeaderRequest: RequestSend}})
	b.Publish(Message{Body: "c", Headers: map[string]string{HeaderRequest: RequestSend}})

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for messages")
	}
	close(done)

	want := []Token{"a", "b", "c"}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("got[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestBus_PublishAfterCloseIsNoop(t *testing.T) {
	b := NewBus()
	b.Close()
	b.Publish(Message{Body: "x"})

	done := make(chan struct{})
	close(done)
	var calls int
	b.Run(done, func(Message) { calls++ })
	if calls != 0 {
		t.Errorf("expected no messages delivered after Close, got %d", calls)
	}
}
