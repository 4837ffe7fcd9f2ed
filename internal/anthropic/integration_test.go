//go:build integration

package anthropic

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestIntegration_RealAPI(t *testing.T) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	baseURL := os.Getenv("ANTHROPIC_BASE_URL")

	if apiKey == "" {
		t.Skip("ANTHROPIC_API_KEY required for integration tests")
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}

	client := NewClient(baseURL, apiKey, "claude-sonnet-4-5", 256, logrus.New())

	reply, err := client.Complete(context.Background(), "Reply with the single word: pong")
	require.NoError(t, err)
	require.NotEmpty(t, reply)
}
