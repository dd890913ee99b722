package llm

import "github.com/rs/zerolog"

// CallEvent describes one completed generation attempt.
type CallEvent struct {
	Model     string
	LatencyMs int64
	Success   bool
	Error     string
}

// Observer receives generation call telemetry.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

// LogObserver writes call events through a zerolog logger.
type LogObserver struct {
	Log zerolog.Logger
}

func (o LogObserver) OnCallComplete(event CallEvent) {
	evt := o.Log.Debug()
	if !event.Success {
		evt = o.Log.Warn().Str("error", event.Error)
	}
	evt.
		Str("model", event.Model).
		Int64("latency_ms", event.LatencyMs).
		Bool("success", event.Success).
		Msg("llm call complete")
}
