package llm

import (
	"context"
	"time"
)

// UsageRecorder receives token usage and latency for each completed
// chat call.
type UsageRecorder interface {
	RecordLLMUsage(promptTokens, completionTokens int, latency time.Duration)
}

// WithMetrics wraps a Service so every successful Chat call reports
// its usage to rec. Failed calls carry no usage data and are skipped.
func WithMetrics(svc Service, rec UsageRecorder) Service {
	if rec == nil {
		return svc
	}
	return &meteredService{inner: svc, rec: rec}
}

type meteredService struct {
	inner Service
	rec   UsageRecorder
}

func (m *meteredService) Chat(ctx context.Context, messages []Message) (string, *CallStats, error) {
	content, stats, err := m.inner.Chat(ctx, messages)
	if err == nil && stats != nil {
		m.rec.RecordLLMUsage(stats.PromptTokens, stats.CompletionTokens,
			time.Duration(stats.DurationMs)*time.Millisecond)
	}
	return content, stats, err
}

func (m *meteredService) Warmup(ctx context.Context) {
	m.inner.Warmup(ctx)
}
