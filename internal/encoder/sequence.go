package encoder

import "sync/atomic"

// Sequence hands out PicIDs for one controller session. IDs increase by one
// and are never reused.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a Sequence whose first Next is start+1.
func NewSequence(start int) *Sequence {
	s := &Sequence{}
	s.last.Store(int64(start))
	return s
}

// Next returns the next unused PicID.
func (s *Sequence) Next() int {
	return int(s.last.Add(1))
}
