// internal/session/handshake.go
package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brailleio/brld/internal/packet"
)

// identify runs the bounded-retry probe sequence. Each attempt writes
// the family's identify request and waits up to the probe timeout for
// an identity response. Structurally valid but unexpected packets are
// acks or warm-up chatter: they keep the attempt alive rather than
// failing it. A timeout consumes one attempt from the retry budget.
func (s *Session) identify() (Geometry, error) {
	d := s.desc
	stream := packet.NewStream(d)
	timeout := time.Duration(d.Probe.TimeoutMs) * time.Millisecond
	buf := make([]byte, 256)

	for attempt := 1; attempt <= d.Probe.Retries; attempt++ {
		if _, err := s.ch.Write(d.Probe.Request); err != nil {
			return Geometry{}, fmt.Errorf("session %s: probe write: %w", s.cfg.ID, err)
		}

		deadline := time.Now().Add(timeout)
		for {
			remain := time.Until(deadline)
			if remain <= 0 {
				break // attempt exhausted
			}

			n, err := s.ch.Read(buf, remain, s.cfg.ReadSubsequent)
			if err != nil {
				return Geometry{}, fmt.Errorf("session %s: probe read: %w", s.cfg.ID, err)
			}
			if n == 0 {
				break // timed out waiting for the first byte
			}

			for _, p := range stream.Feed(buf[:n]) {
				if p.Opcode != d.Probe.ResponseOpcode {
					log.Debug().
						Str("session", s.cfg.ID).
						Uint8("opcode", p.Opcode).
						Msg("non-identity packet during probe, continuing")
					continue
				}
				geom, err := s.extractGeometry(p.Payload)
				if err != nil {
					return Geometry{}, err
				}
				return geom, nil
			}
		}

		log.Debug().
			Str("session", s.cfg.ID).
			Int("attempt", attempt).
			Int("retries", d.Probe.Retries).
			Msg("probe attempt timed out")
	}

	return Geometry{}, fmt.Errorf("session %s: %w after %d attempts",
		s.cfg.ID, ErrIdentifyFailed, d.Probe.Retries)
}

// extractGeometry pulls the negotiated geometry out of the identity
// payload at the family's declared offsets. A response too short for
// its own offsets is a malformed identity and fails the handshake.
func (s *Session) extractGeometry(payload []byte) (Geometry, error) {
	id := s.desc.Identity

	at := func(off int) (int, bool) {
		if off < 0 {
			return 0, false
		}
		if off >= len(payload) {
			return -1, true
		}
		return int(payload[off]), true
	}

	geom := Geometry{DotCount: 8}

	cols, _ := at(id.TextColsOffset)
	if cols <= 0 {
		return Geometry{}, fmt.Errorf("session %s: %w: malformed identity response",
			s.cfg.ID, ErrIdentifyFailed)
	}
	geom.TextCols = cols

	if v, ok := at(id.ModelOffset); ok {
		if v < 0 {
			return Geometry{}, fmt.Errorf("session %s: %w: malformed identity response",
				s.cfg.ID, ErrIdentifyFailed)
		}
		geom.Model = v
	}
	if v, ok := at(id.StatusColsOffset); ok {
		if v < 0 {
			return Geometry{}, fmt.Errorf("session %s: %w: malformed identity response",
				s.cfg.ID, ErrIdentifyFailed)
		}
		geom.StatusCols = v
	}
	if v, ok := at(id.DotCountOffset); ok {
		if v < 0 || (v != 6 && v != 8) {
			return Geometry{}, fmt.Errorf("session %s: %w: malformed identity response",
				s.cfg.ID, ErrIdentifyFailed)
		}
		geom.DotCount = v
	}

	return geom, nil
}
