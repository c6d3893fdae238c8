package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetModel(t *testing.T) {
	tests := []struct {
		name   string
		models map[ModelTier]string
		tier   ModelTier
		want   string
	}{
		{"exact tier", DefaultConfig().Models, TierAdvanced, "gemini-2.5-pro"},
		{"unknown tier uses standard", DefaultConfig().Models, "huge", "gemini-2.5-flash"},
		{"then lite", map[ModelTier]string{TierLite: "lite-only"}, TierAdvanced, "lite-only"},
		{"nothing configured", map[ModelTier]string{}, TierStandard, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Provider: ProviderGemini, Models: tt.models}
			assert.Equal(t, tt.want, cfg.GetModel(tt.tier))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-6)
}

func TestConfigCopies(t *testing.T) {
	base := DefaultConfig()

	chat := base.WithModel(TierStandard, "tuned-chat").WithTimeout(5 * time.Second)
	assert.Equal(t, "tuned-chat", chat.GetModel(TierStandard))
	assert.Equal(t, 5*time.Second, chat.Timeout)
	assert.Equal(t, base.GetModel(TierLite), chat.GetModel(TierLite))

	assert.Equal(t, "gemini-2.5-flash", base.GetModel(TierStandard), "base config unchanged")
	assert.Equal(t, DefaultTimeout, base.Timeout)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(t.Context(), &Config{Provider: "openai"}, "key")
	assert.ErrorContains(t, err, "unsupported provider")

	_, err = NewClient(t.Context(), nil, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
