// internal/session/session.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brailleio/brld/internal/channel"
	"github.com/brailleio/brld/internal/display"
	"github.com/brailleio/brld/internal/family"
	"github.com/brailleio/brld/internal/keys"
	"github.com/brailleio/brld/internal/packet"
)

// State is the per-connection-attempt lifecycle. A fresh handshake is
// required every time the transport is reopened; states never persist
// across reconnects.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateProbing
	StateIdentified
	StateOperating
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateProbing:
		return "probing"
	case StateIdentified:
		return "identified"
	case StateOperating:
		return "operating"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrIdentifyFailed is the distinct handshake-failure condition: the
// caller's retry policy for a device that never identifies differs
// from a mid-session transport error.
var ErrIdentifyFailed = errors.New("session: device did not identify")

// ErrRestartRequired wraps fatal mid-session transport errors. The
// owning manager tears the session down and re-runs the handshake.
var ErrRestartRequired = errors.New("session: restart required")

// Geometry is the negotiated cell layout of one display.
type Geometry struct {
	Model      int
	TextCols   int
	StatusCols int
	DotCount   int
}

// Config carries the per-session runtime parameters.
type Config struct {
	ID             string
	Tick           time.Duration
	ReadInitial    time.Duration
	ReadSubsequent time.Duration
	EventBuffer    int
}

// Session owns one byte channel exclusively for its lifetime. All
// channel I/O happens on the goroutine running Run; Show and Events
// are the only cross-goroutine surfaces.
type Session struct {
	cfg  Config
	desc *family.Descriptor
	ch   channel.Channel

	state State
	geom  Geometry

	enc    *packet.Encoder
	stream *packet.Stream
	dec    *keys.Decoder
	tr     keys.Translator
	cache  *display.Cache

	mu       sync.Mutex
	pending  *display.Frame
	forceReq bool

	events    chan keys.Command
	closeOnce sync.Once

	readBuf []byte
}

// Connect opens the channel, runs the identification handshake, and
// returns an operating-ready session. On any failure the channel is
// released exactly once and the attempt ends in StateFailed.
func Connect(cfg Config, desc *family.Descriptor, open func() (channel.Channel, error)) (*Session, error) {
	if cfg.Tick <= 0 {
		return nil, errors.New("session: tick must be > 0")
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = 64
	}

	s := &Session{
		cfg:     cfg,
		desc:    desc,
		state:   StateConnecting,
		events:  make(chan keys.Command, cfg.EventBuffer),
		readBuf: make([]byte, 512),
	}

	ch, err := open()
	if err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("session %s: connect: %w", cfg.ID, err)
	}
	s.ch = ch

	s.state = StateProbing
	geom, err := s.identify()
	if err != nil {
		s.release()
		s.state = StateFailed
		return nil, err
	}

	s.geom = geom
	s.state = StateIdentified
	s.enc = packet.NewEncoder(desc)
	s.stream = packet.NewStream(desc)
	s.dec = keys.NewDecoder(desc, geom.TextCols, geom.StatusCols)
	s.cache = display.NewCache(geom.TextCols, geom.StatusCols, desc.StatusInDisplay)

	log.Info().
		Str("session", cfg.ID).
		Str("family", desc.Name).
		Int("model", geom.Model).
		Int("text_cols", geom.TextCols).
		Int("status_cols", geom.StatusCols).
		Msg("display identified")

	return s, nil
}

// Geometry returns the negotiated geometry.
func (s *Session) Geometry() Geometry { return s.geom }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Events exposes the decoded command stream. Closed when the session
// ends.
func (s *Session) Events() <-chan keys.Command { return s.events }

// Show hands a frame to the I/O owner; it replaces any frame not yet
// flushed. The frame is copied, so the caller may reuse it.
func (s *Session) Show(f display.Frame) error {
	if len(f.Cells) != s.geom.TextCols {
		return fmt.Errorf("session %s: frame has %d cells, display has %d",
			s.cfg.ID, len(f.Cells), s.geom.TextCols)
	}
	if len(f.Status) != s.geom.StatusCols {
		return fmt.Errorf("session %s: frame has %d status cells, display has %d",
			s.cfg.ID, len(f.Status), s.geom.StatusCols)
	}
	c := f.Clone()
	s.mu.Lock()
	s.pending = &c
	s.mu.Unlock()
	return nil
}

// ForceRewrite makes the next flush transmit unconditionally.
func (s *Session) ForceRewrite() {
	s.mu.Lock()
	s.forceReq = true
	s.mu.Unlock()
}

// Run is the session's single I/O owner: a fixed-period tick loop that
// alternates draining input and flushing pending output. It returns
// nil on context cancellation and an ErrRestartRequired-wrapped error
// on transport failure. The channel is released on every exit path.
func (s *Session) Run(ctx context.Context) error {
	s.state = StateOperating
	defer s.release()

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.pumpInput(); err != nil {
				s.state = StateFailed
				return err
			}
			if err := s.flush(); err != nil {
				s.state = StateFailed
				return err
			}
		}
	}
}

// pumpInput drains every complete packet currently available. A single
// wakeup may deliver multiple coalesced packets; only a would-block
// read ends the drain. Any other read failure is fatal.
func (s *Session) pumpInput() error {
	for {
		n, err := s.ch.Read(s.readBuf, 0, s.cfg.ReadSubsequent)
		if err != nil {
			return fmt.Errorf("%w: read: %v", ErrRestartRequired, err)
		}
		if n == 0 {
			return nil
		}
		for _, p := range s.stream.Feed(s.readBuf[:n]) {
			for _, ev := range s.dec.Decode(p) {
				cmd, ok := s.tr.Translate(ev)
				if !ok {
					continue
				}
				select {
				case s.events <- cmd:
				default:
					log.Warn().
						Str("session", s.cfg.ID).
						Str("command", cmd.Kind.String()).
						Msg("event buffer full, dropping command")
				}
			}
		}
	}
}

// flush encodes and writes the pending frame, if any changed content
// survives the differ.
func (s *Session) flush() error {
	s.mu.Lock()
	f := s.pending
	s.pending = nil
	force := s.forceReq
	s.forceReq = false
	s.mu.Unlock()

	if force {
		s.cache.ForceRewrite()
		if f == nil {
			// Nothing queued: the force applies to the next frame.
			return nil
		}
	}
	if f == nil {
		return nil
	}

	data, err := s.enc.Encode(*f, s.cache)
	if err != nil {
		return fmt.Errorf("session %s: encode: %w", s.cfg.ID, err)
	}
	if data == nil {
		return nil
	}
	if _, err := s.ch.Write(data); err != nil {
		return fmt.Errorf("%w: write: %v", ErrRestartRequired, err)
	}
	return nil
}

// release closes the channel exactly once and closes the event stream.
// Disconnecting from outside goes through context cancellation of Run;
// in-flight reads finish within the transport's own timeouts.
func (s *Session) release() {
	s.closeOnce.Do(func() {
		if s.ch != nil {
			if err := s.ch.Close(); err != nil {
				log.Warn().Str("session", s.cfg.ID).Err(err).Msg("channel close failed")
			}
		}
		close(s.events)
	})
}
