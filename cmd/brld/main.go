// cmd/brld/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brailleio/brld/internal/channel"
	"github.com/brailleio/brld/internal/config"
	"github.com/brailleio/brld/internal/family"
	"github.com/brailleio/brld/internal/session"
)

func main() {
	listPorts := flag.Bool("list", false, "list serial ports and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *listPorts {
		ports, err := channel.Discover()
		if err != nil {
			log.Fatal().Err(err).Msg("port discovery failed")
		}
		for _, p := range ports {
			if p.IsUSB {
				fmt.Printf("%s\tusb vid=%s pid=%s serial=%s\n", p.Name, p.VID, p.PID, p.Serial)
			} else {
				fmt.Printf("%s\n", p.Name)
			}
		}
		return
	}

	if flag.NArg() < 1 {
		log.Fatal().Msg("usage: brld [-list] [-debug] <config.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	if err := family.LoadDir(cfg.Daemon.FamilyDir); err != nil {
		log.Fatal().Err(err).Msg("family descriptor load failed")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// --------------------
	// One session manager per configured device
	// --------------------

	var wg sync.WaitGroup
	for _, dev := range cfg.Devices {
		wg.Add(1)
		go func(dev config.DeviceConfig) {
			defer wg.Done()
			runDevice(ctx, dev, time.Duration(cfg.Daemon.TickMs)*time.Millisecond)
		}(dev)
	}

	wg.Wait()
}

// runDevice owns the reconnect loop for one configured display: a
// fresh handshake on every attempt, backoff between failures so a dead
// or misbehaving device cannot cause a reconnect storm.
func runDevice(ctx context.Context, dev config.DeviceConfig, tick time.Duration) {
	desc, err := family.Lookup(dev.Family)
	if err != nil {
		log.Error().Str("device", dev.ID).Err(err).Msg("skipping device")
		return
	}

	b := &backoff.Backoff{
		Min:    time.Second,
		Max:    30 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	scfg := session.Config{
		ID:             dev.ID,
		Tick:           tick,
		ReadInitial:    time.Duration(dev.ReadInitialMs) * time.Millisecond,
		ReadSubsequent: time.Duration(dev.ReadSubsequentMs) * time.Millisecond,
	}

	for ctx.Err() == nil {
		sess, err := session.Connect(scfg, desc, func() (channel.Channel, error) {
			return channel.Open(dev.Transport, dev.Address, dev.Baud)
		})
		if err != nil {
			if errors.Is(err, session.ErrIdentifyFailed) {
				log.Warn().Str("device", dev.ID).Err(err).Msg("handshake failed")
			} else {
				log.Warn().Str("device", dev.ID).Err(err).Msg("connect failed")
			}
			sleepCtx(ctx, b.Duration())
			continue
		}

		b.Reset()

		go serveDisplay(sess, dev.ID)

		if err := sess.Run(ctx); err != nil {
			log.Error().Str("device", dev.ID).Err(err).Msg("session ended, restarting")
		}
		sleepCtx(ctx, b.Duration())
	}
}

// serveDisplay is the demo consumer: it renders a banner line and
// reacts to pan and routing commands. Real screen readers replace
// this with their own frame source.
func serveDisplay(sess *session.Session, id string) {
	r := newRenderer(sess.Geometry(), "brld ready "+id)
	if err := sess.Show(r.frame()); err != nil {
		log.Error().Str("device", id).Err(err).Msg("initial frame rejected")
		return
	}

	for cmd := range sess.Events() {
		log.Info().
			Str("device", id).
			Str("command", cmd.Kind.String()).
			Int("arg", cmd.Arg).
			Bool("shift", cmd.Shift).
			Bool("long", cmd.Long).
			Msg("key command")

		if r.apply(cmd) {
			if err := sess.Show(r.frame()); err != nil {
				log.Error().Str("device", id).Err(err).Msg("frame rejected")
				return
			}
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
