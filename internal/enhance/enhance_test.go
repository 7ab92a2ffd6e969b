package enhance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func textResponse(body string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: body}},
	}
}

func TestProposeParsesItems(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("```json\n"+
		`{"items":[{"fixture_type":"Valve Package","quantity":2,"model_number":"om-141","page_number":3},`+
		`{"fixture_type":"Eye Wash Station","quantity":"31.1, 31"}]}`+
		"\n```"), nil)

	e := New(client, "claude-haiku-4-5-20251001")
	res := e.Propose(context.Background(), "document text")

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "Valve Package", res.Items[0].FixtureType)
	assert.Equal(t, model.Quantity{Count: 2}, res.Items[0].Quantity)
	assert.Equal(t, "OM-141", res.Items[0].ModelNumber)
	assert.Equal(t, 3, res.Items[0].PageNumber)
	assert.Equal(t, model.Quantity{Ref: "31.1, 31"}, res.Items[1].Quantity)
	client.AssertExpectations(t)
}

func TestWarmSendsPrimer(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.System) == 1 && req.System[0].CacheControl != nil && req.MaxTokens == 16
	})).Return(textResponse("OK"), nil)

	e := New(client, "claude-haiku-4-5-20251001")
	require.NoError(t, e.Warm(context.Background()))
	client.AssertExpectations(t)
}

func TestWarmPropagatesError(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("api key invalid"))

	e := New(client, "claude-haiku-4-5-20251001")
	err := e.Warm(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primer")
}

func TestProposeEmptyItemsDegrades(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(`{"items":[]}`), nil)

	e := New(client, "claude-haiku-4-5-20251001")
	res := e.Propose(context.Background(), "text")

	assert.Equal(t, StatusDegraded, res.Status)
	assert.Empty(t, res.Items)
	assert.Equal(t, "no items proposed", res.Reason)
}

func TestProposeMalformedResponseDegrades(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("sorry, I cannot help"), nil)

	e := New(client, "claude-haiku-4-5-20251001")
	res := e.Propose(context.Background(), "text")

	assert.Equal(t, StatusDegraded, res.Status)
	assert.Equal(t, "malformed response", res.Reason)
}

func TestProposeCallErrorFails(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("429 too many requests: quota"))

	e := New(client, "claude-haiku-4-5-20251001")
	res := e.Propose(context.Background(), "text")

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "quota exceeded", res.Reason)
}

func TestProposeTruncatesInput(t *testing.T) {
	client := new(mockClient)
	var sent anthropic.MessageRequest
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		sent = req
		return true
	})).Return(textResponse(`{"items":[{"fixture_type":"Pump"}]}`), nil)

	long := make([]byte, maxTextChars*2)
	for i := range long {
		long[i] = 'a'
	}

	e := New(client, "claude-haiku-4-5-20251001", WithTimeout(time.Second))
	res := e.Propose(context.Background(), string(long))

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, sent.Messages, 1)
	assert.LessOrEqual(t, len(sent.Messages[0].Content), maxTextChars+len(userPrompt))
}

func TestProposeDropsItemsWithoutCore(t *testing.T) {
	client := new(mockClient)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"items":[{"dimensions":"24\""},{"fixture_type":"Pump"}]}`), nil)

	e := New(client, "claude-haiku-4-5-20251001")
	res := e.Propose(context.Background(), "text")

	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Pump", res.Items[0].FixtureType)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"quota", errors.New("429: quota exceeded for org"), "quota exceeded"},
		{"auth", errors.New("401 invalid api_key provided"), "invalid API key"},
		{"missing model", errors.New("404 model_not_found"), "model not available"},
		{"timeout", errors.New("context deadline exceeded"), "timed out"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"items":[]}`, `{"items":[]}`},
		{"fenced", "```json\n{\"items\":[]}\n```", `{"items":[]}`},
		{"prose wrapped", `Here you go: {"items":[]} hope that helps`, `{"items":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
