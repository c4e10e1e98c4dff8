package playback

const eventBufferSize = 16

// Subscription delivers transport events to one listener. Every channel is
// buffered; a listener that falls behind loses events rather than stalling
// the transport. Done closes when the transport shuts down.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	PositionChanged <-chan PositionChange
	PlaylistChanged <-chan PlaylistChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	state    chan StateChange
	track    chan TrackChange
	position chan PositionChange
	playlist chan PlaylistChange
	errs     chan ErrorEvent
	done     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		state:    make(chan StateChange, eventBufferSize),
		track:    make(chan TrackChange, eventBufferSize),
		position: make(chan PositionChange, eventBufferSize),
		playlist: make(chan PlaylistChange, eventBufferSize),
		errs:     make(chan ErrorEvent, eventBufferSize),
		done:     make(chan struct{}),
	}
	s.StateChanged, s.TrackChanged, s.PositionChanged = s.state, s.track, s.position
	s.PlaylistChanged, s.Error, s.Done = s.playlist, s.errs, s.done
	return s
}

func (s *Subscription) close() { close(s.done) }

// offer sends e unless ch is full.
func offer[E any](ch chan E, e E) bool {
	select {
	case ch <- e:
		return true
	default:
		return false
	}
}

func (s *Subscription) sendState(e StateChange)       { offer(s.state, e) }
func (s *Subscription) sendTrack(e TrackChange)       { offer(s.track, e) }
func (s *Subscription) sendPosition(e PositionChange) { offer(s.position, e) }
func (s *Subscription) sendPlaylist(e PlaylistChange) { offer(s.playlist, e) }
func (s *Subscription) sendError(e ErrorEvent)        { offer(s.errs, e) }
