package frame

import (
	"sync"
	"time"
)

// ringCapacity bounds how many raw frames the ring holds before the oldest
// entry, used or not, is dropped to make room, independent of the eviction
// window.
const ringCapacity = 64

// evictionWindow is how long an unused raw frame stays eligible for a
// fingerprinted receive<T> scan before it is considered stale and evicted.
const evictionWindow = 2 * time.Second

// RawFrame is a single host-bound frame pulled off the wire by the reader
// loop and held in the ring until some receive() call recognizes it.
type RawFrame struct {
	Bytes     []byte
	Used      bool
	Timestamp time.Time
}

// Ring holds raw, timestamped, used-flagged frames so that receive<T> can
// scan for a reply it recognizes before pulling new bytes off the stream.
// A frame read for one fingerprint but belonging to another reply in
// flight stays available for a later receive() call instead of being lost.
type Ring struct {
	mu     sync.Mutex
	frames []RawFrame
}

// NewRing constructs an empty ring.
func NewRing() *Ring {
	return &Ring{frames: make([]RawFrame, 0, ringCapacity)}
}

// Push appends a freshly read frame, evicting stale unused frames first and
// then the oldest entry if the ring is at capacity.
func (r *Ring) Push(b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	if len(r.frames) >= ringCapacity {
		r.frames = r.frames[1:]
	}
	r.frames = append(r.frames, RawFrame{Bytes: b, Timestamp: timeNow()})
}

// Take scans the ring for the first unused frame matching recognize, marks
// it used, and returns its bytes. The second return is false if no frame
// in the ring currently matches.
func (r *Ring) Take(recognize func([]byte) bool) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictLocked()
	for i := range r.frames {
		if r.frames[i].Used {
			continue
		}
		if recognize(r.frames[i].Bytes) {
			r.frames[i].Used = true
			return r.frames[i].Bytes, true
		}
	}
	return nil, false
}

// evictLocked drops unused frames older than evictionWindow. Used frames
// are left in place for diagnostics until they age out of capacity, since
// a frame that was already claimed can never be claimed again.
func (r *Ring) evictLocked() {
	cutoff := timeNow().Add(-evictionWindow)
	kept := r.frames[:0]
	for _, f := range r.frames {
		if !f.Used && f.Timestamp.Before(cutoff) {
			continue
		}
		kept = append(kept, f)
	}
	r.frames = kept
}

// timeNow is a seam so tests can't be broken by real wall-clock flakiness;
// production code always uses time.Now.
var timeNow = time.Now
