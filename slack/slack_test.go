package slack_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"nutrilookup/slack"

	should "github.com/stretchr/testify/assert"
	must "github.com/stretchr/testify/require"
)

type mockDoer struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func okResponse() *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewBufferString("ok"))}
}

func TestPostMessage(t *testing.T) {
	tests := []struct {
		name    string
		doFunc  func(req *http.Request) (*http.Response, error)
		wantErr error
	}{
		{
			name: "success",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return okResponse(), nil
			},
			wantErr: nil,
		},
		{
			name: "failure status",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusBadRequest, Status: "400 Bad Request", Body: io.NopCloser(bytes.NewBufferString("bad request"))}, nil
			},
			wantErr: fmt.Errorf("failed to post message: 400 Bad Request"),
		},
		{
			name: "do error",
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("network error")
			},
			wantErr: fmt.Errorf("network error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: tt.doFunc})
			err := client.PostMessage(context.Background(), "#nutrition", "Hello, world!")
			should.Equal(t, tt.wantErr, err)
		})
	}
}

func TestFormatSuggestions(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
		want        string
	}{
		{
			name:        "numbered list",
			suggestions: []string{"Eat more protein.", "Cut back on sugar."},
			want:        "*Today*\n1. Eat more protein.\n2. Cut back on sugar.",
		},
		{
			name: "empty",
			want: "*Today*\n_No suggestions today. You are on track._",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			should.Equal(t, tt.want, slack.FormatSuggestions("Today", tt.suggestions))
		})
	}
}

func TestPostSuggestions(t *testing.T) {
	var payload map[string]string
	client := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		must.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		return okResponse(), nil
	}})

	err := slack.PostSuggestions(context.Background(), client, "#nutrition", "Today", []string{"Drink water."})
	must.NoError(t, err)
	should.Equal(t, "#nutrition", payload["channel"])
	should.Equal(t, "*Today*\n1. Drink water.", payload["text"])

	failing := slack.NewClient("http://example.com/webhook", &mockDoer{doFunc: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network error")
	}})
	err = slack.PostSuggestions(context.Background(), failing, "#nutrition", "Today", nil)
	should.ErrorContains(t, err, "post suggestions: network error")
}
