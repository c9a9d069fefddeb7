package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/rs/zerolog"

	"github.com/culso/Eqonomize/output"
)

// stepClock advances by step on every reading.
func stepClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func newCollector(step time.Duration) *TimingCollector {
	c := NewTimingCollector()
	c.now = stepClock(step)
	return c
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	_, ok := collector.(noOpCollector)
	assert.True(t, ok)

	timer := StartTimer(context.Background(), "load")
	timer.Child("decode").End()
	timer.Records(3)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)
	assert.Equal(t, Collector(collector), FromContext(ctx))
}

func TestTimingCollectorReport(t *testing.T) {
	collector := newCollector(10 * time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	root := StartTimer(ctx, "load home.xml")
	parse := root.Child("parse")
	parse.End()
	decode := StartTimer(ctx, "decode transactions")
	decode.Records(412)
	nested := decode.Child("splits")
	nested.End()
	decode.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"load home.xml: 70ms",
		"├─ parse: 10ms",
		"└─ decode transactions (412 records): 30ms",
		"   └─ splits: 10ms",
	}, lines)
}

func TestTimingCollectorSequentialRoots(t *testing.T) {
	collector := newCollector(time.Millisecond)
	first := collector.Start("first")
	first.End()
	first.End()
	second := collector.Start("second")
	second.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)
	assert.Equal(t, "first: 1ms\nsecond: 1ms\n", buf.String())
}

func TestTimingCollectorStyledReport(t *testing.T) {
	collector := newCollector(200 * time.Millisecond)
	root := collector.Start("realize")
	root.Child("schedules").End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, output.NewPlainStyles(&buf))
	assert.Contains(t, buf.String(), "└─ schedules: 200ms")
}

func TestTimingCollectorLog(t *testing.T) {
	collector := newCollector(5 * time.Millisecond)
	root := collector.Start("load")
	child := root.Child("decode")
	child.Records(2)
	child.End()
	root.Child("unfinished")
	root.End()

	var buf bytes.Buffer
	collector.Log(zerolog.New(&buf))

	out := buf.String()
	assert.Contains(t, out, `"operation":"load > decode"`)
	assert.Contains(t, out, `"records":2`)
	assert.NotContains(t, out, "unfinished")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	NewTimingCollector().Report(&buf, nil)
	assert.Equal(t, 0, buf.Len())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{1 * time.Millisecond, "1ms"},
		{999 * time.Millisecond, "999ms"},
		{1 * time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}
