package assembler

import (
	"sync"
	"testing"

	"github.com/junsooki/pixoo64/internal/anim"
)

func testAnim(t *testing.T, n int) *anim.Animation {
	t.Helper()
	frames := make([]anim.Frame, n)
	for i := range frames {
		frames[i] = frame(byte(i))
	}
	a, err := anim.New(frames, 10, w)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestStageAdvanceWraps(t *testing.T) {
	s := NewStage()
	s.Publish(testAnim(t, 3), 1)

	var seen []byte
	for i := 0; i < 7; i++ {
		p := s.Load()
		seen = append(seen, p.Frame()[0])
		if !s.Advance(p) {
			t.Fatal("Advance failed with no competing publish")
		}
	}
	want := []byte{0, 1, 2, 0, 1, 2, 0}
	if string(seen) != string(want) {
		t.Fatalf("frames = %v, want %v", seen, want)
	}
}

func TestStageAdvanceLosesToPublish(t *testing.T) {
	s := NewStage()
	old := s.Publish(testAnim(t, 3), 1)
	fresh := s.Publish(testAnim(t, 2), 2)

	if s.Advance(old) {
		t.Fatal("stale advance succeeded")
	}
	if s.Load() != fresh || fresh.Index() != 0 {
		t.Fatal("stale advance disturbed the new animation")
	}
}

func TestStageConcurrentReaders(t *testing.T) {
	s := NewStage()
	a3, a5 := testAnim(t, 3), testAnim(t, 5)
	s.Publish(a3, 0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if i%2 == 0 {
				s.Publish(a5, i)
			} else {
				s.Publish(a3, i)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			p := s.Load()
			if p.Index() >= p.Animation().Len() {
				t.Errorf("index %d out of range for %d frames", p.Index(), p.Animation().Len())
				return
			}
			s.Advance(p)
		}
	}()
	wg.Wait()
}
