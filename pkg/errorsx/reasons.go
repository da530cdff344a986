package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonInvalidRequest ReasonCode = "invalid_request"

	ReasonLLMGenerate  ReasonCode = "llm_generate"
	ReasonLLMRateLimit ReasonCode = "llm_rate_limit"
	ReasonLLMTimeout   ReasonCode = "llm_timeout"

	ReasonTranslate ReasonCode = "translate"

	ReasonTTSSynthesize ReasonCode = "tts_synthesize"
	ReasonTTSRateLimit  ReasonCode = "tts_rate_limit"
	ReasonArtifactStore ReasonCode = "artifact_store"

	ReasonSTTTranscribe ReasonCode = "stt_transcribe"
)
