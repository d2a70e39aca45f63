package wflib

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pulsegrid/internal/channel"
	"github.com/specialistvlad/pulsegrid/internal/ctxlog"
	"github.com/specialistvlad/pulsegrid/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	path    string
	labels  []string
	offsets Offsets
}

// recorder is a Translator that remembers what it was asked to do.
type recorder struct {
	calls []call
	err   error
}

func (r *recorder) Extension() string { return "rec" }

func (r *recorder) UpdateWaveformLibrary(_ context.Context, path string, pulses []*sequence.Pulse, offsets Offsets) error {
	r.calls = append(r.calls, call{path: path, labels: labels(pulses), offsets: offsets})
	return r.err
}

func testContext() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

func onInstrument(label, instrument, translator string) *channel.Channel {
	return channel.New(label, channel.Qubit, channel.WithPhys(channel.PhysicalChannel{
		Label:      instrument + "-12",
		Instrument: instrument,
		Translator: translator,
	}))
}

func TestRegistry(t *testing.T) {
	buf := &bytes.Buffer{}
	reg := NewRegistry(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	rec := &recorder{}
	reg.Register("rec", rec)

	got, ok := reg.Get("rec")
	require.True(t, ok)
	assert.Same(t, rec, got)

	_, ok = reg.Get("missing")
	assert.False(t, ok)

	assert.Panics(t, func() { reg.Register("rec", &recorder{}) })
	assert.Equal(t, []string{"rec"}, reg.Names())
	assert.Contains(t, buf.String(), "Registering translator.")
	assert.Contains(t, buf.String(), "name=rec")
}

func TestUpdate_GroupsByInstrument(t *testing.T) {
	ctx, logs := testContext()
	base := filepath.Join(t.TempDir(), "GST")

	q1 := onInstrument("q1", "APS1", "rec")
	q2 := onInstrument("q2", "APS2", "rec")
	q3 := onInstrument("q3", "APS1", "rec")

	// Arrange
	require.NoError(t, WriteOffsets(OffsetsPath(base, "APS1"), Offsets{"X": 0, "Y": 64}))
	seqs := [][]sequence.Entry{{
		sequence.X(q1, 20),
		&sequence.CompositePulse{Label: "XY", Pulses: []*sequence.Pulse{
			sequence.TAPulse("Y", q3, 20, 1),
			sequence.TAPulse("Z", q2, 20, 1),
		}},
		sequence.X(q3, 20),
	}}
	rec := &recorder{}
	reg := NewRegistry(nil)
	reg.Register("rec", rec)

	// Act
	err := Update(ctx, reg, sequence.Pulses(seqs), base)

	// Assert
	require.NoError(t, err)
	want := []call{{
		path:    base + "-APS1.rec",
		labels:  []string{"X", "Y"},
		offsets: Offsets{"X": 0, "Y": 64},
	}}
	if diff := cmp.Diff(want, rec.calls, cmp.AllowUnexported(call{})); diff != "" {
		t.Fatalf("translator calls mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, logs.String(), "Offset file not found")
	assert.Contains(t, logs.String(), "instrument=APS2")
}

func TestUpdate_UnknownTranslator(t *testing.T) {
	ctx, _ := testContext()
	q1 := onInstrument("q1", "APS1", "h5")

	err := Update(ctx, NewRegistry(nil), sequence.Pulses([][]sequence.Entry{{sequence.X(q1, 20)}}), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown translator "h5"`)
}

func TestUpdate_TranslatorError(t *testing.T) {
	ctx, _ := testContext()
	base := filepath.Join(t.TempDir(), "seq")
	require.NoError(t, WriteOffsets(OffsetsPath(base, "APS1"), Offsets{"X": 0}))

	boom := errors.New("boom")
	reg := NewRegistry(nil)
	reg.Register("rec", &recorder{err: boom})

	err := Update(ctx, reg, sequence.Pulses([][]sequence.Entry{{sequence.X(onInstrument("q1", "APS1", "rec"), 20)}}), base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}

func TestLoadOffsets_Missing(t *testing.T) {
	_, err := LoadOffsets(filepath.Join(t.TempDir(), "none.offsets"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOffsetsMissing))
}

func TestYAMLTranslator_UpdatesInPlace(t *testing.T) {
	ctx, _ := testContext()
	path := filepath.Join(t.TempDir(), "seq-APS1.yaml")
	q1 := onInstrument("q1", "APS1", YAMLName)

	first := sequence.X(q1, 20)
	require.NoError(t, YAMLTranslator{}.UpdateWaveformLibrary(ctx, path, []*sequence.Pulse{first}, Offsets{"X": 0}))

	y := sequence.TAPulse("Y", q1, 30, 0.5)
	x := sequence.X(q1, 40)
	unknown := sequence.TAPulse("W", q1, 10, 1)
	require.NoError(t, YAMLTranslator{}.UpdateWaveformLibrary(ctx, path, []*sequence.Pulse{y, x, unknown}, Offsets{"X": 0, "Y": 128}))

	lib, err := ReadLibrary(path)
	require.NoError(t, err)
	require.Len(t, lib.Waveforms, 2)

	assert.Equal(t, "X", lib.Waveforms[0].Label)
	assert.Equal(t, 40.0, lib.Waveforms[0].Length)
	assert.Equal(t, "Y", lib.Waveforms[1].Label)
	assert.Equal(t, 128, lib.Waveforms[1].Offset)
	assert.Equal(t, "q1", lib.Waveforms[1].Channel)
}
