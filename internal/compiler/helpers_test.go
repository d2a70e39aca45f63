package compiler

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/stretchr/testify/require"
)

// approx compares float slices produced by floating point passes.
var approx = cmpopts.EquateApprox(0, 1e-9)

// logContext returns a context carrying a JSON logger that writes to the
// returned buffer.
func logContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func lengths(seq []sequence.Entry) []float64 {
	out := make([]float64, len(seq))
	for i, e := range seq {
		out[i] = sequence.Duration(e)
	}
	return out
}

func kinds(seq []sequence.Entry) []string {
	out := make([]string, len(seq))
	for i, e := range seq {
		out[i] = sequence.KindOf(e) + ":" + sequence.LabelOf(e)
	}
	return out
}

func requireLengths(t *testing.T, want []float64, seq []sequence.Entry) {
	t.Helper()
	if diff := cmp.Diff(want, lengths(seq), approx); diff != "" {
		t.Fatalf("lengths mismatch (-want +got):\n%s", diff)
	}
}

func gatePulse(ch *channel.Channel, length float64) *sequence.Pulse {
	return sequence.Blank(ch, length)
}

func idle(ch *channel.Channel, length float64) *sequence.Pulse {
	return sequence.Id(ch, length)
}

func f64(v float64) *float64 { return &v }

// testLibrary builds a small device: q1 and q2 with a gate each, a
// measurement channel with a digitizer trigger, a parametric drive on q2,
// a spectator qubit q3 and the q1->q2 interaction edge.
func testLibrary(t *testing.T) *channel.Library {
	t.Helper()
	lib, err := channel.NewLibrary([]channel.Spec{
		{Label: "q1", Kind: channel.Qubit, GateChan: "q1-gate", PulseParams: map[string]float64{"length": 20}},
		{Label: "q2", Kind: channel.Qubit, GateChan: "q2-gate", ParametricChan: "q2-par", PulseParams: map[string]float64{"length": 20}},
		{Label: "q3", Kind: channel.Qubit, PulseParams: map[string]float64{"length": 20}},
		{Label: "M-q1", Kind: channel.Measurement, TrigChan: "digTrig"},
		{Label: "q1-q2", Kind: channel.Edge, Source: "q1", Target: "q2"},
		{Label: "q1-gate", Kind: channel.Marker, GateBuffer: f64(2), GateMinWidth: f64(5)},
		{Label: "q2-gate", Kind: channel.Marker},
		{Label: "q2-par", Kind: channel.Generic, PulseParams: map[string]float64{"length": 20}},
		{Label: "digTrig", Kind: channel.Marker, PulseParams: map[string]float64{"length": 10}},
		{Label: "slaveTrig", Kind: channel.Marker, PulseParams: map[string]float64{"length": 4}},
	})
	require.NoError(t, err)
	return lib
}
