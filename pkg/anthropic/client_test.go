package anthropic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateMessage(ctx context.Context, req MessageRequest) (*MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MessageResponse), args.Error(1)
}

func TestCreateMessage_MockClient(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	req := MessageRequest{
		Model:     "claude-sonnet-4-20250514",
		MaxTokens: 1000,
		System:    "You answer with two labeled lines.",
		Messages: []Message{
			{Role: "user", Content: "Who owns Maialino?"},
		},
	}

	expected := &MessageResponse{
		ID:         "msg_123",
		Model:      "claude-sonnet-4-20250514",
		Content:    []ContentBlock{{Type: "text", Text: "Group Name: Union Square Hospitality Group\nTotal Locations: 25"}},
		StopReason: "end_turn",
		Usage: TokenUsage{
			InputTokens:  42,
			OutputTokens: 18,
		},
	}

	mc.On("CreateMessage", ctx, req).Return(expected, nil)

	resp, err := mc.CreateMessage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "msg_123", resp.ID)
	assert.Contains(t, resp.Content[0].Text, "Union Square Hospitality Group")
	assert.Equal(t, int64(42), resp.Usage.InputTokens)
	assert.Equal(t, int64(18), resp.Usage.OutputTokens)

	mc.AssertExpectations(t)
}

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Group Name: Independent\n"},
			{Type: "tool_use", Text: ""},
			{Type: "text", Text: "Total Locations: 1"},
		},
	}
	assert.Equal(t, "Group Name: Independent\nTotal Locations: 1", resp.Text())
}

func TestMessageResponse_Text_Empty(t *testing.T) {
	resp := &MessageResponse{}
	assert.Equal(t, "", resp.Text())
}

func TestEstimateCost(t *testing.T) {
	perMillion := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	tests := []struct {
		name  string
		model string
		usage TokenUsage
		want  float64
	}{
		{"sonnet_per_million", "claude-sonnet-4-20250514", perMillion, 18.00},
		{"haiku_per_million", "claude-haiku-4-5-20251001", perMillion, 4.80},
		{"zero_usage", "claude-sonnet-4-20250514", TokenUsage{}, 0},
		{"unknown_model", "unknown-model", perMillion, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.usage.EstimateCost(tt.model), 0.001)
		})
	}
}

func TestLogCost_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		usage := TokenUsage{InputTokens: 100, OutputTokens: 50}
		usage.LogCost("claude-sonnet-4-20250514", "primary")
	})

	assert.NotPanics(t, func() {
		usage := TokenUsage{}
		usage.LogCost("unknown-model", "")
	})
}
