package widget

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultSlideInterval = 4500 * time.Millisecond
	// SwipeThreshold is the horizontal travel in pixels a swipe must exceed.
	SwipeThreshold = 40
)

// Slider is the hero carousel: an index into a fixed number of slides that
// advances on a timer until paused.
type Slider struct {
	count    int
	interval time.Duration
	onChange func(index int)

	mu       sync.Mutex
	index    int
	paused   bool
	restart  chan struct{}
	swipeX   float64
	tracking bool
}

// NewSlider returns a slider over count slides. onChange, when non-nil, is
// called with the new index after every move; it runs with no lock held.
func NewSlider(count int, interval time.Duration, onChange func(index int)) *Slider {
	if interval <= 0 {
		interval = DefaultSlideInterval
	}
	return &Slider{
		count:    count,
		interval: interval,
		onChange: onChange,
		restart:  make(chan struct{}, 1),
	}
}

func (s *Slider) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Dots returns one flag per slide, true for the active one.
func (s *Slider) Dots() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	dots := make([]bool, s.count)
	if s.count > 0 {
		dots[s.index] = true
	}
	return dots
}

func (s *Slider) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Next and Prev are the arrow controls; like GoTo they restart the timer.
func (s *Slider) Next() { s.move(1, true) }
func (s *Slider) Prev() { s.move(-1, true) }

// GoTo selects slide i; any integer is folded into range.
func (s *Slider) GoTo(i int) {
	s.set(func(int) int { return i }, true)
}

// Pause and Resume follow pointer hover, focus and touch.
func (s *Slider) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *Slider) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
	s.kick()
}

// PointerDown and PointerUp track a horizontal swipe. PointerUp reports
// whether the gesture moved the slider.
func (s *Slider) PointerDown(x float64) {
	s.mu.Lock()
	s.swipeX = x
	s.tracking = true
	s.mu.Unlock()
}

func (s *Slider) PointerUp(x float64) bool {
	s.mu.Lock()
	if !s.tracking {
		s.mu.Unlock()
		return false
	}
	s.tracking = false
	dx := x - s.swipeX
	s.mu.Unlock()
	return s.Swipe(dx)
}

func (s *Slider) PointerCancel() {
	s.mu.Lock()
	s.tracking = false
	s.mu.Unlock()
}

// Swipe moves one slide when |dx| exceeds SwipeThreshold: a leftward swipe
// (negative dx) shows the next slide.
func (s *Slider) Swipe(dx float64) bool {
	switch {
	case dx < -SwipeThreshold:
		s.Next()
	case dx > SwipeThreshold:
		s.Prev()
	default:
		return false
	}
	return true
}

// Tick advances one slide unless paused. Run calls it on every interval.
func (s *Slider) Tick() {
	if s.Paused() {
		return
	}
	s.move(1, false)
}

// Run drives autoplay until ctx is done. Manual navigation and Resume start a
// fresh interval.
func (s *Slider) Run(ctx context.Context) {
	t := time.NewTimer(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.restart:
			t.Reset(s.interval)
		case <-t.C:
			s.Tick()
			t.Reset(s.interval)
		}
	}
}

func (s *Slider) move(delta int, manual bool) {
	s.set(func(cur int) int { return cur + delta }, manual)
}

func (s *Slider) set(next func(cur int) int, manual bool) {
	s.mu.Lock()
	if s.count == 0 {
		s.mu.Unlock()
		return
	}
	s.index = ((next(s.index) % s.count) + s.count) % s.count
	idx := s.index
	s.mu.Unlock()

	if manual {
		s.kick()
	}
	if s.onChange != nil {
		s.onChange(idx)
	}
}

func (s *Slider) kick() {
	select {
	case s.restart <- struct{}{}:
	default:
	}
}
