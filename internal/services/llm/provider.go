package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/indago/internal/common"
	"github.com/ternarybob/indago/internal/interfaces"
)

// NewService creates the chat service for the configured default provider.
// Planning and generation run against whichever provider is selected; the
// financial agent always drives Gemini because it depends on function
// calling.
func NewService(config *common.Config, kvStorage interfaces.KeyValueStorage, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeService(&config.Claude, kvStorage, logger)
	case common.LLMProviderGemini, "":
		return NewGeminiService(&config.Gemini, kvStorage, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.LLM.DefaultProvider)
	}
}
