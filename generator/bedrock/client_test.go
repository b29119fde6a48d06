package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockBedrockClient implements bedrockRuntimeClient for testing
type mockBedrockClient struct {
	response *bedrockruntime.ConverseOutput
	err      error
	input    *bedrockruntime.ConverseInput
}

func (m *mockBedrockClient) Converse(ctx context.Context, input *bedrockruntime.ConverseInput, opts ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.input = input
	return m.response, m.err
}

func textOutput(stop types.StopReason, texts ...string) *bedrockruntime.ConverseOutput {
	content := make([]types.ContentBlock, 0, len(texts))
	for _, s := range texts {
		content = append(content, &types.ContentBlockMemberText{Value: s})
	}
	return &bedrockruntime.ConverseOutput{
		StopReason: stop,
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: content},
		},
		Metrics: &types.ConverseMetrics{LatencyMs: aws.Int64(120)},
		Usage:   &types.TokenUsage{InputTokens: aws.Int32(300), OutputTokens: aws.Int32(90)},
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		input    Options
		expected Options
	}{
		{
			name:  "empty options uses defaults",
			input: Options{},
			expected: Options{
				ModelID:     defaultModelID,
				MaxTokens:   defaultMaxTokens,
				Temperature: defaultTemperature,
				TopP:        defaultTopP,
			},
		},
		{
			name: "custom options preserved",
			input: Options{
				ModelID:     "custom-model",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        0.8,
			},
			expected: Options{
				ModelID:     "custom-model",
				MaxTokens:   4096,
				Temperature: 0.5,
				TopP:        0.8,
			},
		},
		{
			name:  "partial options with defaults",
			input: Options{ModelID: "custom-model"},
			expected: Options{
				ModelID:     "custom-model",
				MaxTokens:   defaultMaxTokens,
				Temperature: defaultTemperature,
				TopP:        defaultTopP,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockBedrockClient{}
			client := NewClient(mockClient, tt.input)

			assert.Equal(t, tt.expected, client.opts)
			assert.Equal(t, mockClient, client.brc)
		})
	}
}

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name     string
		response *bedrockruntime.ConverseOutput
		err      error
		want     string
		wantErr  error
	}{
		{
			name:     "single text block",
			response: textOutput(types.StopReasonEndTurn, `[{"name":"Banana"}]`),
			want:     `[{"name":"Banana"}]`,
		},
		{
			name:     "multiple text blocks joined",
			response: textOutput(types.StopReasonEndTurn, "Here you go:", `{"suggestions":[]}`),
			want:     "Here you go:\n{\"suggestions\":[]}",
		},
		{
			name:     "max tokens",
			response: textOutput(types.StopReasonMaxTokens, `[{"name":"Ban`),
			wantErr:  ErrMaxTokens,
		},
		{
			name:     "content filtered",
			response: textOutput(types.StopReasonContentFiltered),
			wantErr:  ErrBlocked,
		},
		{
			name:     "no text",
			response: textOutput(types.StopReasonEndTurn),
			wantErr:  ErrNoText,
		},
		{
			name:    "converse error",
			err:     context.DeadlineExceeded,
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockBedrockClient{response: tt.response, err: tt.err}
			client := NewClient(mockClient, Options{})

			got, err := client.Generate(context.Background(), "FOOD: banana")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Generate_Input(t *testing.T) {
	mockClient := &mockBedrockClient{response: textOutput(types.StopReasonEndTurn, "[]")}
	client := NewClient(mockClient, Options{MaxTokens: 512})

	_, err := client.Generate(context.Background(), "FOOD: banana")
	require.NoError(t, err)

	in := mockClient.input
	require.NotNil(t, in)
	assert.Equal(t, defaultModelID, aws.ToString(in.ModelId))
	assert.Equal(t, int32(512), aws.ToInt32(in.InferenceConfig.MaxTokens))
	require.Len(t, in.System, 1)
	require.Len(t, in.Messages, 1)
	assert.Equal(t, types.ConversationRoleUser, in.Messages[0].Role)

	text, ok := in.Messages[0].Content[0].(*types.ContentBlockMemberText)
	require.True(t, ok)
	assert.Equal(t, "FOOD: banana", text.Value)
	assert.Nil(t, in.ToolConfig)
}

func TestTextFromOutput_Nil(t *testing.T) {
	assert.Equal(t, "", textFromOutput(nil))
	assert.Equal(t, "", textFromOutput(&bedrockruntime.ConverseOutput{}))
}
