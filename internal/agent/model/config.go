package model

// ================ Config ================

type ConversationConfig struct {
	TTL     string `envconfig:"CONVERSATION_TTL" default:"15m"`
	Context struct {
		MaxTurns int `envconfig:"CONVERSATION_CONTEXT_MAX_TURNS" default:"20"`
	}
	Turn struct {
		MaxToolCalls int `envconfig:"CONVERSATION_TURN_MAX_TOOL_CALLS" default:"5"`
	}
}

type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

type ClassifierPromptConfig struct {
	AssistantName string `envconfig:"PROMPT_ASSISTANT_NAME" default:"Steward"`
	HouseholdName string `envconfig:"PROMPT_HOUSEHOLD_NAME" default:"the O'Donnell household"`
}

type BreakerConfig struct {
	MaxFailures uint32 `envconfig:"LLM_BREAKER_MAX_FAILURES" default:"5"`
	TimeoutSec  int    `envconfig:"LLM_BREAKER_TIMEOUT_SEC" default:"30"`
	IntervalSec int    `envconfig:"LLM_BREAKER_INTERVAL_SEC" default:"60"`
}
