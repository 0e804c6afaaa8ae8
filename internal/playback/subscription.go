package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber. Events are
// sent from whichever goroutine performed the mutation; sends never
// block, so a subscriber that falls behind loses events rather than
// stalling the engine.
type Subscription struct {
	TrackChanged    <-chan TrackChange
	Started         <-chan struct{}
	Stopped         <-chan struct{}
	PlaylistUpdated <-chan PlaylistUpdate
	ShuffleChanged  <-chan ShuffleChange
	LoopChanged     <-chan LoopChange
	Done            <-chan struct{}

	// Internal write channels
	trackCh    chan TrackChange
	startedCh  chan struct{}
	stoppedCh  chan struct{}
	playlistCh chan PlaylistUpdate
	shuffleCh  chan ShuffleChange
	loopCh     chan LoopChange
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		trackCh:    make(chan TrackChange, eventBufferSize),
		startedCh:  make(chan struct{}, eventBufferSize),
		stoppedCh:  make(chan struct{}, eventBufferSize),
		playlistCh: make(chan PlaylistUpdate, eventBufferSize),
		shuffleCh:  make(chan ShuffleChange, eventBufferSize),
		loopCh:     make(chan LoopChange, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.TrackChanged = s.trackCh
	s.Started = s.startedCh
	s.Stopped = s.stoppedCh
	s.PlaylistUpdated = s.playlistCh
	s.ShuffleChanged = s.shuffleCh
	s.LoopChanged = s.loopCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

func (s *Subscription) sendTrack(e TrackChange) {
	select {
	case s.trackCh <- e:
	default:
		// Drop if buffer full
	}
}

func (s *Subscription) sendStarted() {
	select {
	case s.startedCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) sendStopped() {
	select {
	case s.stoppedCh <- struct{}{}:
	default:
	}
}

func (s *Subscription) sendPlaylist(e PlaylistUpdate) {
	select {
	case s.playlistCh <- e:
	default:
	}
}

func (s *Subscription) sendShuffle(e ShuffleChange) {
	select {
	case s.shuffleCh <- e:
	default:
	}
}

func (s *Subscription) sendLoop(e LoopChange) {
	select {
	case s.loopCh <- e:
	default:
	}
}
