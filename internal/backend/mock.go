package backend

import (
	"sync"
	"time"
)

// Mock is a test double for the audio backend. Unlike the real backend
// it is fully deterministic: tests script load failures, activity and
// reported positions. It is safe for concurrent use because the
// end-of-track monitor and the test goroutine both touch it.
type Mock struct {
	mu sync.Mutex

	loaded      string
	active      bool
	paused      bool
	level       float64
	position    time.Duration
	hasPosition bool

	loadErrs     map[string]error
	invalid      map[string]bool
	loadDelay    time.Duration
	loadCalls    []string
	playCalls    int
	stopCalls    int
	pauseCalls   int
	resumeCalls  int
	closedCalled bool
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// NewMock creates a new mock backend.
func NewMock() *Mock {
	return &Mock{
		loadErrs: make(map[string]error),
		invalid:  make(map[string]bool),
	}
}

func (m *Mock) Load(path string) error {
	m.mu.Lock()
	delay := m.loadDelay
	m.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, path)
	if err := m.loadErrs[path]; err != nil {
		return err
	}
	m.loaded = path
	m.active = false
	m.paused = false
	return nil
}

func (m *Mock) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.loaded != "" {
		m.active = true
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	m.paused = true
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCalls++
	m.paused = false
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.loaded = ""
	m.active = false
	m.paused = false
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

func (m *Mock) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

func (m *Mock) Position() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position, m.hasPosition
}

func (m *Mock) Validate(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.invalid[path]
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closedCalled = true
	return nil
}

// Test helpers

// SetLoadErr makes Load fail for path.
func (m *Mock) SetLoadErr(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrs[path] = err
}

// FailValidation makes Validate return false for path.
func (m *Mock) FailValidation(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalid[path] = true
}

// SetActive overrides the activity flag, simulating a track finishing
// naturally when set to false.
func (m *Mock) SetActive(active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = active
}

// SetPosition scripts the reported position. ok false simulates a
// backend that cannot report one.
func (m *Mock) SetPosition(pos time.Duration, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = pos
	m.hasPosition = ok
}

// SetLoadDelay makes every Load sleep for d before completing.
func (m *Mock) SetLoadDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadDelay = d
}

// Loaded returns the currently loaded path.
func (m *Mock) Loaded() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Level returns the last applied volume level.
func (m *Mock) Level() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// LoadCalls returns every path passed to Load, in order.
func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.loadCalls))
	copy(calls, m.loadCalls)
	return calls
}

// PlayCalls returns the number of Play invocations.
func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

// PauseCalls returns the number of Pause invocations.
func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

// ResumeCalls returns the number of Resume invocations.
func (m *Mock) ResumeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeCalls
}
