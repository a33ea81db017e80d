package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"vistoria/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSettings map[string]string

func (s staticSettings) Value(_ context.Context, category, key, fallback string) string {
	if v, ok := s[category+"/"+key]; ok {
		return v
	}
	return fallback
}

type chatwootFake struct {
	mu           sync.Mutex
	contacts     []map[string]any
	conversation []map[string]any
	requests     []string
	messages     []string
}

func (f *chatwootFake) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	base := "/api/v1/accounts/1"

	switch {
	case r.Method == http.MethodGet && r.URL.Path == base+"/contacts/search":
		_ = json.NewEncoder(w).Encode(map[string]any{"payload": f.contacts})
	case r.Method == http.MethodPost && r.URL.Path == base+"/contacts":
		_ = json.NewEncoder(w).Encode(map[string]any{"payload": map[string]any{"contact": map[string]any{"id": 11}}})
	case r.Method == http.MethodGet && r.URL.Path == base+"/contacts/11/conversations":
		_ = json.NewEncoder(w).Encode(map[string]any{"payload": f.conversation})
	case r.Method == http.MethodPost && r.URL.Path == base+"/conversations":
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 22})
	case r.Method == http.MethodPost && r.URL.Path == base+"/conversations/22/messages":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.messages = append(f.messages, body["content"].(string))
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestChatwootService_CreatesContactAndConversation(t *testing.T) {
	fake := &chatwootFake{}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	defer server.Close()

	relay := NewChatwootService(config.Config{
		ChatwootAPIURL:    server.URL,
		ChatwootAPIToken:  "token",
		ChatwootAccountID: "1",
		ChatwootInboxID:   "3",
	}, nil)

	require.NoError(t, relay.SendMessage(context.Background(), "(41) 99999-0000", "done"))
	assert.Equal(t, []string{"done"}, fake.messages)
	assert.Equal(t, []string{
		"GET /api/v1/accounts/1/contacts/search",
		"POST /api/v1/accounts/1/contacts",
		"GET /api/v1/accounts/1/contacts/11/conversations",
		"POST /api/v1/accounts/1/conversations",
		"POST /api/v1/accounts/1/conversations/22/messages",
	}, fake.requests)
}

func TestChatwootService_ReusesOpenConversation(t *testing.T) {
	fake := &chatwootFake{
		contacts: []map[string]any{{"id": 11}},
		conversation: []map[string]any{
			{"id": 5, "status": "resolved"},
			{"id": 22, "status": "open"},
		},
	}
	server := httptest.NewServer(http.HandlerFunc(fake.serve))
	defer server.Close()

	relay := NewChatwootService(config.Config{}, staticSettings{
		"chatwoot/api_url":    server.URL,
		"chatwoot/api_token":  "token",
		"chatwoot/account_id": "1",
		"chatwoot/inbox_id":   "3",
	})

	require.NoError(t, relay.SendMessage(context.Background(), "+55 41 99999 0000", "hello"))
	assert.Len(t, fake.requests, 3)
	assert.Equal(t, []string{"hello"}, fake.messages)
}

func TestChatwootService_NotConfigured(t *testing.T) {
	relay := NewChatwootService(config.Config{}, nil)
	assert.ErrorIs(t, relay.SendMessage(context.Background(), "123", "x"), ErrChatRelayNotConfigured)
}
