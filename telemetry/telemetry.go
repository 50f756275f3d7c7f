// Package telemetry provides a structured-logging turn tracer. It is wired
// in with --trace and writes one event per pipeline stage, which makes
// world debugging a matter of reading the log instead of re-running turns.
package telemetry

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/engine/resolve"
	"github.com/fable-works/fablecore/types"
)

// Tracer logs every stage of the turn pipeline with zerolog.
type Tracer struct {
	log zerolog.Logger
}

// New creates a tracer writing human-readable events to w.
func New(w io.Writer) *Tracer {
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return &Tracer{log: zerolog.New(output).With().Timestamp().Logger()}
}

// NewWithLogger wraps an existing logger, for callers that configure their
// own output and level.
func NewWithLogger(log zerolog.Logger) *Tracer {
	return &Tracer{log: log}
}

func (t *Tracer) Input(raw string) {
	t.log.Debug().Str("input", raw).Msg("turn input")
}

func (t *Tracer) Parsed(cmd types.Command) {
	evt := t.log.Debug().Str("verb", string(cmd.Verb))
	if cmd.CustomVerb != "" {
		evt = evt.Str("custom_verb", cmd.CustomVerb)
	}
	if cmd.DirectObject != "" {
		evt = evt.Str("direct", cmd.DirectObject)
	}
	if cmd.Preposition != "" {
		evt = evt.Str("preposition", string(cmd.Preposition)).Str("indirect", cmd.IndirectObject)
	}
	evt.Msg("parsed")
}

func (t *Tracer) Resolved(rc resolve.ResolvedCommand) {
	evt := t.log.Debug().Str("verb", string(rc.Verb))
	if rc.DirectObjectID != "" {
		evt = evt.Str("direct_id", rc.DirectObjectID)
	}
	if rc.IndirectObjectID != "" {
		evt = evt.Str("indirect_id", rc.IndirectObjectID)
	}
	evt.Msg("resolved")
}

func (t *Tracer) Result(res engine.TurnResult, turns int) {
	t.log.Info().
		Int("turn", turns).
		Bool("error", res.Error).
		Bool("game_over", res.GameOver).
		Bool("won", res.Won).
		Str("message", res.Message).
		Msg("turn result")
}
