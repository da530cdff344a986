package metrics

const (
	EventBreakerOpen   = "breaker_open"
	EventBreakerClose  = "breaker_close"
	EventBreakerDenied = "breaker_denied"
	EventRateLimit     = "rate_limit"

	EventTurnClassified       = "turn_classified"
	EventTurnLatency          = "turn_latency_ms"
	EventCompletionFailed     = "completion_failed"
	EventDriftDetected        = "drift_detected"
	EventDriftTranslateFailed = "drift_translate_failed"
	EventVoiceSynthesized     = "voice_synthesized"
	EventVoiceFailed          = "voice_failed"
)
