package telemetry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fable-works/fablecore/engine"
	"github.com/fable-works/fablecore/engine/resolve"
	"github.com/fable-works/fablecore/types"
)

func TestTracerEvents(t *testing.T) {
	var buf bytes.Buffer
	tr := NewWithLogger(zerolog.New(&buf))

	tr.Input("take brass key")
	tr.Parsed(types.Command{Verb: types.VerbTake, DirectObject: "brass key"})
	tr.Resolved(resolve.ResolvedCommand{Verb: types.VerbTake, DirectObjectID: "brass_key"})
	tr.Result(engine.TurnResult{Message: "Taken."}, 3)

	out := buf.String()
	for _, want := range []string{
		"turn input", "take brass key",
		"parsed", `"direct":"brass key"`,
		"resolved", `"direct_id":"brass_key"`,
		"turn result", `"turn":3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

var _ engine.Tracer = (*Tracer)(nil)
