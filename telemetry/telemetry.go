// Package telemetry provides hierarchical timing of load, decode and
// realize runs. Collectors travel through a context so instrumented code
// keeps its signatures; without one every timer is a no-op.
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "load home.xml")
//	decode := timer.Child("decode transactions")
//	decode.Records(len(nodes))
//	decode.End()
//	timer.End()
//
//	collector.Report(os.Stderr, styles)
package telemetry

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/culso/Eqonomize/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector gathers timers.
type Collector interface {
	// Start begins timing an operation nested under the innermost running
	// timer.
	Start(name string) Timer

	// Report writes the collected tree. styles may be nil for plain text.
	Report(w io.Writer, styles *output.Styles)

	// Log emits one debug event per finished timer.
	Log(logger zerolog.Logger)
}

// Timer tracks a single operation.
type Timer interface {
	End()
	Child(name string) Timer
	// Records notes how many records the operation handled.
	Records(n int)
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context, or a no-op collector.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector carried by ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}

type noOpCollector struct{}

func (noOpCollector) Start(string) Timer                 { return noOpTimer{} }
func (noOpCollector) Report(io.Writer, *output.Styles) {}
func (noOpCollector) Log(zerolog.Logger)               {}

type noOpTimer struct{}

func (noOpTimer) End()                 {}
func (noOpTimer) Child(string) Timer { return noOpTimer{} }
func (noOpTimer) Records(int)        {}
