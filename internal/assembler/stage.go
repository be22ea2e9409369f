package assembler

import (
	"sync/atomic"

	"github.com/junsooki/pixoo64/internal/anim"
)

// Published is an animation ready for playback together with the frame to
// show next. Values are immutable; advancing produces a new value.
type Published struct {
	anim  *anim.Animation
	picID int
	index int
}

func (p *Published) Animation() *anim.Animation { return p.anim }
func (p *Published) PicID() int                 { return p.picID }
func (p *Published) Index() int                 { return p.index }

// Frame returns the frame at the current index.
func (p *Published) Frame() anim.Frame {
	return p.anim.Frame(p.index)
}

// next returns the successor value with the index wrapped.
func (p *Published) next() *Published {
	return &Published{
		anim:  p.anim,
		picID: p.picID,
		index: (p.index + 1) % p.anim.Len(),
	}
}

// Stage holds the currently playing animation. Readers always see a whole
// Published value; writers replace it in one atomic store.
type Stage struct {
	cur atomic.Pointer[Published]
}

func NewStage() *Stage {
	return &Stage{}
}

// Load returns the current value, or nil before anything was published.
func (s *Stage) Load() *Published {
	return s.cur.Load()
}

// Publish replaces the current animation, starting at frame 0.
func (s *Stage) Publish(a *anim.Animation, picID int) *Published {
	p := &Published{anim: a, picID: picID}
	s.cur.Store(p)
	return p
}

// Advance moves from p to its next frame. It reports false when p is no
// longer current, in which case a newer publish wins and nothing changes.
func (s *Stage) Advance(p *Published) bool {
	return s.cur.CompareAndSwap(p, p.next())
}
