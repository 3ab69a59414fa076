package panel

import (
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/gamepanel/internal/core"
)

// fakeHost records what the panel asks of its toolkit.
type fakeHost struct {
	mu         sync.Mutex
	failAllocs int // number of CreateImage calls that return nil
	allocs     int
	frames     []*core.Screen
	presentErr error
	listener   InputListener
	focused    bool
	prefW      int
	prefH      int
}

func (h *fakeHost) CreateImage(w, hgt int) *core.Screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.allocs++
	if h.failAllocs > 0 {
		h.failAllocs--
		return nil
	}
	return core.NewScreen(w, hgt)
}

func (h *fakeHost) Present(frame *core.Screen) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.presentErr != nil {
		return h.presentErr
	}
	h.frames = append(h.frames, frame)
	return nil
}

func (h *fakeHost) Listen(l InputListener)      { h.listener = l }
func (h *fakeHost) RequestFocus()               { h.focused = true }
func (h *fakeHost) SetPreferredSize(w, hgt int) { h.prefW, h.prefH = w, hgt }

func (h *fakeHost) frameCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

func (h *fakeHost) lastFrame() *core.Screen {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames[len(h.frames)-1]
}

func (h *fakeHost) allocCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocs
}

// fakeGame counts loop calls and records hook invocations.
type fakeGame struct {
	updates atomic.Int64
	draws   atomic.Int64

	mu     sync.Mutex
	keys   []core.KeyCode
	clicks [][2]int
}

func (g *fakeGame) Update() { g.updates.Add(1) }

func (g *fakeGame) Draw(gfx *core.Graphics) {
	g.draws.Add(1)
	gfx.DrawText(0, 0, "frame")
}

func (g *fakeGame) OnKeyPress(code core.KeyCode) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keys = append(g.keys, code)
}

func (g *fakeGame) OnMouseDown(x, y int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clicks = append(g.clicks, [2]int{x, y})
}

// updateOnly implements nothing but the required method.
type updateOnly struct{}

func (updateOnly) Update() {}

// sleeper is one loop parked in its sleep.
type sleeper struct {
	d    time.Duration
	wake chan struct{}
	once sync.Once
}

func (s *sleeper) release() {
	s.once.Do(func() { close(s.wake) })
}

// gate is a sleep function that parks each loop until released.
type gate struct {
	arrived chan *sleeper

	mu      sync.Mutex
	open    bool
	pending []*sleeper
}

func newGate() *gate {
	return &gate{arrived: make(chan *sleeper, 16)}
}

func (g *gate) sleep(d time.Duration) {
	g.mu.Lock()
	if g.open {
		g.mu.Unlock()
		return
	}
	s := &sleeper{d: d, wake: make(chan struct{})}
	g.pending = append(g.pending, s)
	g.mu.Unlock()

	g.arrived <- s
	<-s.wake
}

// openAll wakes every parked loop and lets later sleeps return at once.
func (g *gate) openAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = true
	for _, s := range g.pending {
		s.release()
	}
}

func (g *gate) waitArrival(t *testing.T) *sleeper {
	t.Helper()
	select {
	case s := <-g.arrived:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("loop never reached its sleep")
		return nil
	}
}

func (g *gate) expectNoArrival(t *testing.T) {
	t.Helper()
	select {
	case <-g.arrived:
		t.Fatal("unexpected loop iteration")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPreferredSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"small", 1, 1},
		{"wide", 320, 240},
		{"tall", 40, 300},
		{"terminal", 80, 24},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			host := &fakeHost{}
			p := New(updateOnly{}, host, WithSize(tc.w, tc.h))

			w, h := p.PreferredSize()
			if w != tc.w || h != tc.h {
				t.Errorf("PreferredSize() = (%d, %d), expected (%d, %d)", w, h, tc.w, tc.h)
			}
			if host.prefW != tc.w || host.prefH != tc.h {
				t.Errorf("host preferred size = (%d, %d), expected (%d, %d)", host.prefW, host.prefH, tc.w, tc.h)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	host := &fakeHost{}
	p := New(updateOnly{}, host)

	w, h := p.PreferredSize()
	if w != 600 || h != 600 {
		t.Errorf("default size = (%d, %d), expected (600, 600)", w, h)
	}
	if p.Interval() != 50*time.Millisecond {
		t.Errorf("default Interval() = %v, expected 50ms", p.Interval())
	}
	if p.FPS() != 20 {
		t.Errorf("default FPS() = %d, expected 20", p.FPS())
	}
	if p.IsRunning() {
		t.Error("new panel should not be running")
	}
	if !host.focused {
		t.Error("panel should request focus")
	}
	if host.listener != p {
		t.Error("panel should register itself as input listener")
	}
}

func TestIntervalRoundTrip(t *testing.T) {
	p := New(updateOnly{}, &fakeHost{})

	for _, d := range []time.Duration{time.Millisecond, 16 * time.Millisecond, time.Second} {
		p.SetInterval(d)
		if p.Interval() != d {
			t.Errorf("Interval() = %v, expected %v", p.Interval(), d)
		}
	}

	p.SetFPS(50)
	if p.Interval() != 20*time.Millisecond {
		t.Errorf("SetFPS(50) gave interval %v, expected 20ms", p.Interval())
	}

	p.SetFPS(0)
	if p.Interval() != 20*time.Millisecond {
		t.Errorf("SetFPS(0) should be ignored, interval = %v", p.Interval())
	}
}

func TestLoopSleepsCurrentInterval(t *testing.T) {
	var (
		mu    sync.Mutex
		slept []time.Duration
		p     *GamePanel
	)
	sleep := func(d time.Duration) {
		mu.Lock()
		slept = append(slept, d)
		n := len(slept)
		mu.Unlock()

		switch n {
		case 2:
			p.SetInterval(16 * time.Millisecond)
		case 4:
			p.StopGame()
		}
	}

	game := &fakeGame{}
	p = New(game, &fakeHost{}, WithSleep(sleep))
	p.StartGame()
	p.Wait()

	expected := []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 16 * time.Millisecond, 16 * time.Millisecond}
	mu.Lock()
	defer mu.Unlock()
	if len(slept) != len(expected) {
		t.Fatalf("loop slept %d times, expected %d: %v", len(slept), len(expected), slept)
	}
	for i := range expected {
		if slept[i] != expected[i] {
			t.Errorf("sleep %d = %v, expected %v", i, slept[i], expected[i])
		}
	}
	if game.updates.Load() != 4 {
		t.Errorf("Update called %d times, expected 4", game.updates.Load())
	}
}

func TestLoopOrderAndPresent(t *testing.T) {
	g := newGate()
	host := &fakeHost{}
	game := &fakeGame{}
	p := New(game, host, WithSize(10, 2), WithSleep(g.sleep))

	p.StartGame()
	g.waitArrival(t)

	if game.updates.Load() != 1 || game.draws.Load() != 1 {
		t.Errorf("after one iteration updates=%d draws=%d, expected 1 and 1", game.updates.Load(), game.draws.Load())
	}
	if host.frameCount() != 1 {
		t.Fatalf("host received %d frames, expected 1", host.frameCount())
	}
	if row := host.lastFrame().Row(0); row != "frame     " {
		t.Errorf("presented row 0 = %q, expected %q", row, "frame     ")
	}

	p.StopGame()
	g.openAll()
	p.Wait()
}

func TestStopIsImmediateAndCooperative(t *testing.T) {
	g := newGate()
	p := New(&fakeGame{}, &fakeHost{}, WithSleep(g.sleep))

	p.StartGame()
	if !p.IsRunning() {
		t.Fatal("IsRunning() should be true after StartGame")
	}
	g.waitArrival(t)

	// The loop is parked in its sleep; stopping must not wait for it.
	p.StopGame()
	if p.IsRunning() {
		t.Error("IsRunning() should be false immediately after StopGame")
	}

	g.openAll()
	p.Wait()
}

func TestDoubleStartKeepsOneLoop(t *testing.T) {
	g := newGate()
	p := New(&fakeGame{}, &fakeHost{}, WithSleep(g.sleep))

	p.StartGame()
	first := p.animator
	g.waitArrival(t)

	p.StartGame()
	if p.animator != first {
		t.Error("second StartGame should reuse the running loop")
	}
	if !p.IsRunning() {
		t.Error("IsRunning() should stay true")
	}
	g.expectNoArrival(t)

	p.StopGame()
	g.openAll()
	p.Wait()
}

func TestRestartCreatesFreshLoop(t *testing.T) {
	g := newGate()
	p := New(&fakeGame{}, &fakeHost{}, WithSleep(g.sleep))

	p.StartGame()
	first := p.animator
	old := g.waitArrival(t)

	p.StopGame()
	if p.animator != nil {
		t.Error("StopGame should clear the loop reference")
	}

	p.StartGame()
	second := p.animator
	if second == nil || second == first || second.id == first.id {
		t.Fatal("StartGame after StopGame should create a new loop")
	}
	g.waitArrival(t)

	// Let the old loop wake up: it must exit instead of iterating again
	// alongside the new one.
	old.release()
	g.expectNoArrival(t)

	p.StopGame()
	g.openAll()
	p.Wait()
}

func TestSetRunningFalseEndsLoopAndAllowsRestart(t *testing.T) {
	g := newGate()
	p := New(&fakeGame{}, &fakeHost{}, WithSleep(g.sleep))

	p.StartGame()
	first := p.animator
	s := g.waitArrival(t)

	p.SetRunning(false)
	s.release()
	p.Wait()

	p.StartGame()
	if p.animator == first {
		t.Error("StartGame after the loop finished should create a new loop")
	}
	g.waitArrival(t)

	p.StopGame()
	g.openAll()
	p.Wait()
}

func TestRenderSkipsWhenAllocationFails(t *testing.T) {
	host := &fakeHost{failAllocs: 1}
	game := &fakeGame{}
	p := New(game, host, WithSize(4, 4))

	p.Render()

	if p.Graphics() != nil {
		t.Error("Graphics() should be nil after a failed allocation")
	}
	if p.Snapshot() != nil {
		t.Error("Snapshot() should be nil after a failed allocation")
	}
	if game.draws.Load() != 0 {
		t.Error("Draw should not run without a buffer")
	}

	// Next frame retries and succeeds.
	p.Render()
	if p.Graphics() == nil {
		t.Fatal("Graphics() should be set after a successful allocation")
	}
	if game.draws.Load() != 1 {
		t.Errorf("Draw called %d times, expected 1", game.draws.Load())
	}

	// The buffer is allocated once.
	p.Render()
	if host.allocCount() != 2 {
		t.Errorf("CreateImage called %d times, expected 2", host.allocCount())
	}
}

func TestRenderWithoutDrawer(t *testing.T) {
	p := New(updateOnly{}, &fakeHost{}, WithSize(3, 1))
	p.Render()

	s := p.Snapshot()
	if s == nil {
		t.Fatal("Snapshot() should exist after Render")
	}
	if s.String() != "   " {
		t.Errorf("base Render should draw nothing, got %q", s.String())
	}
}

// getterGame draws through the panel's getter instead of the argument.
type getterGame struct {
	p    *GamePanel
	same atomic.Bool
}

func (g *getterGame) Update() {}

func (g *getterGame) Draw(gfx *core.Graphics) {
	got := g.p.Graphics()
	g.same.Store(got == gfx)
	got.DrawText(0, 0, "ok")
}

func TestGraphicsFromDraw(t *testing.T) {
	g := &getterGame{}
	g.p = New(g, &fakeHost{}, WithSize(2, 1))

	done := make(chan struct{})
	go func() {
		g.p.Render()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Render did not return when Draw called Graphics()")
	}

	if !g.same.Load() {
		t.Error("Graphics() inside Draw should return the context Draw received")
	}
	if got := g.p.Snapshot().String(); got != "ok" {
		t.Errorf("Snapshot() = %q, expected %q", got, "ok")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	p := New(updateOnly{}, &fakeHost{}, WithSize(3, 1))
	p.Render()

	s := p.Snapshot()
	p.Graphics().DrawText(0, 0, "abc")

	if s.String() != "   " {
		t.Errorf("Snapshot should not change with the buffer, got %q", s.String())
	}
	if p.Snapshot().String() != "abc" {
		t.Errorf("new Snapshot = %q, expected %q", p.Snapshot().String(), "abc")
	}
}

func TestPresentFailureIsFatal(t *testing.T) {
	host := &fakeHost{presentErr: errors.New("surface gone")}
	fatal := make(chan error, 1)
	p := New(&fakeGame{}, host, WithFatal(func(err error) { fatal <- err }))

	p.StartGame()

	select {
	case err := <-fatal:
		if err != host.presentErr {
			t.Errorf("fatal handler got %v, expected %v", err, host.presentErr)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler was not called")
	}

	p.Wait()
	if p.IsRunning() {
		t.Error("panel should not be running after a fatal present error")
	}
}

func TestDefaultLoggerReportsFatal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("CreateTemp() failed: %v", err)
	}
	defer f.Close()

	stderr := os.Stderr
	os.Stderr = f
	host := &fakeHost{presentErr: errors.New("surface gone")}
	fatal := make(chan error, 1)
	p := New(&fakeGame{}, host, WithFatal(func(err error) { fatal <- err }))
	os.Stderr = stderr

	p.StartGame()
	select {
	case <-fatal:
	case <-time.After(2 * time.Second):
		t.Fatal("fatal handler was not called")
	}
	p.Wait()

	out, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !strings.Contains(string(out), "could not paint on screen") || !strings.Contains(string(out), "surface gone") {
		t.Errorf("stderr = %q, expected the present failure", out)
	}
}

func TestInputHooks(t *testing.T) {
	host := &fakeHost{}
	game := &fakeGame{}
	New(game, host)

	host.listener.HandleInput(core.KeyEvent(core.KeyPressed, core.KeyCode('k')))
	host.listener.HandleInput(core.MouseEvent(core.MousePressed, 7, 3))

	ignored := []core.InputEvent{
		core.KeyEvent(core.KeyReleased, 'k'),
		core.KeyEvent(core.KeyTyped, 'k'),
		core.MouseEvent(core.MouseReleased, 7, 3),
		core.MouseEvent(core.MouseClicked, 7, 3),
		core.MouseEvent(core.MouseEntered, 0, 0),
		core.MouseEvent(core.MouseExited, 0, 0),
	}
	for _, ev := range ignored {
		host.listener.HandleInput(ev)
	}

	game.mu.Lock()
	defer game.mu.Unlock()
	if len(game.keys) != 1 || game.keys[0] != 'k' {
		t.Errorf("key hook calls = %v, expected [k]", game.keys)
	}
	if len(game.clicks) != 1 || game.clicks[0] != [2]int{7, 3} {
		t.Errorf("mouse hook calls = %v, expected [[7 3]]", game.clicks)
	}
}

func TestInputWithoutHooks(t *testing.T) {
	p := New(updateOnly{}, &fakeHost{})

	// Must not panic.
	p.HandleInput(core.KeyEvent(core.KeyPressed, core.KeyEnter))
	p.HandleInput(core.MouseEvent(core.MousePressed, 1, 1))
}

func TestIntervalSurvivesRestart(t *testing.T) {
	g := newGate()
	p := New(&fakeGame{}, &fakeHost{}, WithSize(320, 240), WithSleep(g.sleep))

	w, h := p.PreferredSize()
	if w != 320 || h != 240 {
		t.Fatalf("PreferredSize() = (%d, %d), expected (320, 240)", w, h)
	}

	p.StartGame()
	g.waitArrival(t)
	p.SetInterval(16 * time.Millisecond)
	p.StopGame()
	p.StartGame()

	if p.Interval() != 16*time.Millisecond {
		t.Errorf("Interval() after restart = %v, expected 16ms", p.Interval())
	}
	if s := g.waitArrival(t); s.d != 16*time.Millisecond {
		t.Errorf("new loop slept %v, expected 16ms", s.d)
	}

	p.StopGame()
	g.openAll()
	p.Wait()
}
