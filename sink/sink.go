// Package sink implements the result sinks that consume finished program
// states representing MAP trace estimates and render them for a caller.
package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"mapinfer/engine"
)

// OutputFormat selects how a sink renders values; sinks are free to ignore
// it if they only support one format.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ResultSet names which predicts to emit.
type ResultSet struct {
	Predicts bool
	Trace    bool
}

// DefaultResultSet emits both predicts and the trace.
var DefaultResultSet = ResultSet{Predicts: true, Trace: true}

// TracePredictName is the synthetic predict name under which the engine
// emits the whole chosen trace.
const TracePredictName = "$trace"

// ResultSink is the external interface the search engine emits MAP
// estimates to.
type ResultSink interface {
	EmitPredicts(state *engine.ProgramState, format OutputFormat, which ResultSet)
	EmitPredict(name string, value any, weight float64, format OutputFormat)
}

// EmitPredicts is the shared emit_predicts implementation: it emits one
// predict per trace entry (name = static id) when
// which.Predicts is set, plus the synthetic $trace predict (the sequence of
// chosen values) when which.Trace is set. Concrete sinks call this from
// their EmitPredicts method instead of reimplementing the trace walk.
func EmitPredicts(sink ResultSink, state *engine.ProgramState, format OutputFormat, which ResultSet) {
	weight := math.Exp(state.LogWeight)

	if which.Predicts {
		for _, entry := range state.Trace {
			sink.EmitPredict(entry.Site.StaticID, entry.Value, weight, format)
		}
	}

	if which.Trace {
		values := make([]any, len(state.Trace))
		for i, entry := range state.Trace {
			values[i] = entry.Value
		}
		sink.EmitPredict(TracePredictName, values, weight, format)
	}
}

// ConsoleSink writes human-readable predicts to an io.Writer.
type ConsoleSink struct {
	Out io.Writer
}

func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{Out: out}
}

func (c *ConsoleSink) EmitPredicts(state *engine.ProgramState, format OutputFormat, which ResultSet) {
	EmitPredicts(c, state, format, which)
}

func (c *ConsoleSink) EmitPredict(name string, value any, weight float64, _ OutputFormat) {
	fmt.Fprintf(c.Out, "%s => %v (weight %.6g)\n", name, value, weight)
}

// JSONSink writes one JSON object per predict to an io.Writer, for machine
// consumption.
type JSONSink struct {
	Out io.Writer
}

func NewJSONSink(out io.Writer) *JSONSink {
	return &JSONSink{Out: out}
}

type jsonPredict struct {
	Name   string  `json:"name"`
	Value  any     `json:"value"`
	Weight float64 `json:"weight"`
}

func (j *JSONSink) EmitPredicts(state *engine.ProgramState, format OutputFormat, which ResultSet) {
	EmitPredicts(j, state, format, which)
}

func (j *JSONSink) EmitPredict(name string, value any, weight float64, _ OutputFormat) {
	enc := json.NewEncoder(j.Out)
	_ = enc.Encode(jsonPredict{Name: name, Value: value, Weight: weight})
}
