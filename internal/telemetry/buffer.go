package telemetry

import "log"

// queuedMsg is one serialized lifecycle message waiting for the broker to
// come back, e.g. across a suspend/resume cycle.
type queuedMsg struct {
	topic   string
	payload []byte
	qos     byte
}

// ring is a fixed-capacity FIFO of queued messages. When full, a push evicts
// the oldest entry; recent lifecycle events matter more than old ones.
// Not safe for concurrent use; the publisher synchronizes around it.
type ring struct {
	slots   []queuedMsg
	next    int // slot the next push writes to
	size    int
	dropped bool // a push evicted something since the last drain
}

func newRing(capacity int) *ring {
	return &ring{slots: make([]queuedMsg, capacity)}
}

func (r *ring) push(msg queuedMsg) {
	if r.size == len(r.slots) && !r.dropped {
		log.Printf("telemetry: replay queue full (%d), evicting oldest events", len(r.slots))
		r.dropped = true
	}
	// With the ring full, next wraps onto the oldest slot, so the write
	// below is the eviction.
	r.slots[r.next] = msg
	r.next = (r.next + 1) % len(r.slots)
	if r.size < len(r.slots) {
		r.size++
	}
}

// drainAll returns the queued messages oldest-first and empties the ring.
func (r *ring) drainAll() []queuedMsg {
	if r.size == 0 {
		return nil
	}

	first := (r.next - r.size + len(r.slots)) % len(r.slots)
	out := make([]queuedMsg, r.size)
	for i := range out {
		out[i] = r.slots[(first+i)%len(r.slots)]
	}

	r.next = 0
	r.size = 0
	r.dropped = false
	return out
}

func (r *ring) len() int {
	return r.size
}
