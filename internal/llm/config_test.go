package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
}

func TestGetModelFallbackChain(t *testing.T) {
	cfg := &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierStandard: "standard-model"},
	}
	assert.Equal(t, "standard-model", cfg.GetModel(TierAdvanced))

	cfg = &Config{
		Provider: ProviderGemini,
		Models:   map[ModelTier]string{TierLite: "lite-model"},
	}
	assert.Equal(t, "lite-model", cfg.GetModel(TierAdvanced))

	cfg = &Config{Provider: ProviderGemini}
	assert.Equal(t, "", cfg.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	base := DefaultConfig()
	custom := base.WithModel(TierLite, "other-model")

	assert.Equal(t, "other-model", custom.GetModel(TierLite))
	// The original is untouched.
	assert.Equal(t, "gemini-2.5-flash-lite", base.GetModel(TierLite))
}
