package kafka

import "sync"

// partitionState tracks one partition's delivery frontier: the last
// contiguously-delivered offset, the set of offsets tracked but not yet
// delivered, and the set of offsets delivered out of order, waiting for
// the gap below them to close.
type partitionState struct {
	lastDelivered int64
	reported      int64
	inFlight      map[int64]struct{}
	deliveredHigh map[int64]struct{}
}

type tagInfo struct {
	partition int32
	offset    int64
}

// OffsetTracker implements the prefix-frontier commit algorithm: it only
// ever reports a partition's frontier as advanced past a contiguous run of
// delivered offsets, so a commit built from a snapshot never skips over an
// offset whose disposition hasn't arrived yet. All methods are safe for
// concurrent use: Track, Delivered, Commit and Clear are called from a
// sink endpoint's dispatcher goroutine, while Snapshot is polled from the
// worker goroutine between consumer poll cycles.
type OffsetTracker struct {
	mu    sync.Mutex
	parts map[int32]*partitionState
	tags  map[Token]tagInfo
}

func NewOffsetTracker() *OffsetTracker {
	return &OffsetTracker{
		parts: make(map[int32]*partitionState),
		tags:  make(map[Token]tagInfo),
	}
}

func (t *OffsetTracker) state(p int32, firstOffset int64) *partitionState {
	st, ok := t.parts[p]
	if !ok {
		// Unset: the offset one below the first record ever tracked for
		// this partition.
		st = &partitionState{
			lastDelivered: firstOffset - 1,
			reported:      firstOffset - 1,
			inFlight:      make(map[int64]struct{}),
			deliveredHigh: make(map[int64]struct{}),
		}
		t.parts[p] = st
	}
	return st
}

// Track records rec as sent under tok, before the send call returns to
// the caller. For a settled send the caller should not call Track at all;
// settled deliveries are forgotten immediately, not tracked.
func (t *OffsetTracker) Track(tok Token, rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.state(rec.Partition, rec.Offset)
	st.inFlight[rec.Offset] = struct{}{}
	t.tags[tok] = tagInfo{partition: rec.Partition, offset: rec.Offset}
}

// Delivered records a terminal disposition for tok and advances that
// partition's frontier as far as the resulting contiguous run allows. A
// tok with no tracked entry (already delivered, or never tracked because
// its delivery was settled) is a silent no-op.
func (t *OffsetTracker) Delivered(tok Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	info, ok := t.tags[tok]
	if !ok {
		return
	}
	delete(t.tags, tok)

	st, ok := t.parts[info.partition]
	if !ok {
		return
	}
	delete(st.inFlight, info.offset)
	st.deliveredHigh[info.offset] = struct{}{}

	next := st.lastDelivered + 1
	for {
		if _, ok := st.deliveredHigh[next]; !ok {
			break
		}
		delete(st.deliveredHigh, next)
		st.lastDelivered = next
		next++
	}
}

// Snapshot returns the next offset to commit for every partition whose
// frontier has advanced since the last Snapshot call. Partitions with no
// advance are omitted, so a caller polling Snapshot on a fixed interval
// never re-commits an offset it already committed.
func (t *OffsetTracker) Snapshot() map[int32]int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[int32]int64)
	for p, st := range t.parts {
		if st.lastDelivered == st.reported {
			continue
		}
		out[p] = st.lastDelivered + 1
		st.reported = st.lastDelivered
	}
	return out
}

// Commit tells the tracker that partition p has been committed through
// offset (exclusive), letting it drop any bookkeeping below it.
// Committing does not itself move the frontier; it only lets the tracker
// forget offsets a snapshot has already reported and the caller has
// already durably committed.
func (t *OffsetTracker) Commit(p int32, offset int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.parts[p]
	if !ok {
		return
	}
	for o := range st.inFlight {
		if o < offset {
			delete(st.inFlight, o)
		}
	}
	for o := range st.deliveredHigh {
		if o < offset {
			delete(st.deliveredHigh, o)
		}
	}
}

// Clear discards all tracker state, used when a sink endpoint tears down.
func (t *OffsetTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parts = make(map[int32]*partitionState)
	t.tags = make(map[Token]tagInfo)
}
