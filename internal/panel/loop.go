package panel

import (
	"sync"
	"sync/atomic"
)

var animatorSeq atomic.Uint64

// animator is one run of the game loop. A panel creates a new one for every
// start that follows a stop; an animator never runs twice.
type animator struct {
	id      uint64
	once    sync.Once
	stopped bool // set by StopGame, guarded by GamePanel.mu
	done    bool // set when the loop has decided to exit, guarded by GamePanel.mu
}

func newAnimator() *animator {
	return &animator{id: animatorSeq.Add(1)}
}

// StartGame starts the loop. A loop that is already running is left alone;
// only a stopped or finished panel gets a new one.
func (p *GamePanel) StartGame() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.animator == nil || p.animator.done {
		p.animator = newAnimator()
	}
	p.running.Store(true)

	a := p.animator
	a.once.Do(func() {
		p.loops.Add(1)
		p.logger.Debug("loop started", "loop", a.id, "interval", p.Interval())
		go p.run(a)
	})
}

// StopGame clears the running flag and releases the loop. It returns
// immediately; the loop notices at its next iteration boundary.
func (p *GamePanel) StopGame() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running.Store(false)
	if p.animator != nil {
		p.animator.stopped = true
		p.animator = nil
	}
}

// Wait blocks until every loop started by this panel has exited.
func (p *GamePanel) Wait() {
	p.loops.Wait()
}

// keepGoing decides, at an iteration boundary, whether a may run another
// iteration. Once it answers false the animator is finished for good.
func (p *GamePanel) keepGoing(a *animator) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running.Load() && !a.stopped {
		return true
	}
	a.done = true
	return false
}

func (p *GamePanel) run(a *animator) {
	defer p.loops.Done()
	defer p.logger.Debug("loop exited", "loop", a.id)

	for p.keepGoing(a) {
		interval := p.Interval()

		p.game.Update()
		p.Render()
		if !p.paintScreen() {
			return
		}

		p.sleep(interval)
	}
}

// paintScreen hands a copy of the buffer to the host. A failure is fatal;
// it reports false so the loop ends if the fatal handler returns.
func (p *GamePanel) paintScreen() bool {
	frame := p.Snapshot()
	if frame == nil {
		return true
	}

	if err := p.host.Present(frame); err != nil {
		p.logger.Error("could not paint on screen, aborting", "error", err)
		p.running.Store(false)
		p.fatal(err)
		return false
	}
	return true
}
