package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"vistoria/config"

	logger "github.com/Bparsons0904/goLogger"
)

const CHATWOOT_SETTINGS_CATEGORY = "chatwoot"

var ErrChatRelayNotConfigured = errors.New("chat relay not configured")

type ChatRelay interface {
	SendMessage(ctx context.Context, phone, text string) error
}

type chatwootSettings struct {
	apiURL    string
	apiToken  string
	accountID string
	inboxID   string
}

// ChatwootService relays messages to an inbox, finding or creating the contact and
// an open conversation first. Connection settings are read per call so stored
// settings override the environment without a restart.
type ChatwootService struct {
	config   config.Config
	settings SettingsValues
	client   *http.Client
	log      logger.Logger
}

func NewChatwootService(config config.Config, settings SettingsValues) *ChatwootService {
	return &ChatwootService{
		config:   config,
		settings: settings,
		client:   &http.Client{Timeout: 15 * time.Second},
		log:      logger.New("chatwootService"),
	}
}

func (s *ChatwootService) resolve(ctx context.Context) chatwootSettings {
	value := func(key, fallback string) string {
		if s.settings == nil {
			return fallback
		}
		return s.settings.Value(ctx, CHATWOOT_SETTINGS_CATEGORY, key, fallback)
	}

	return chatwootSettings{
		apiURL:    strings.TrimSuffix(value("api_url", s.config.ChatwootAPIURL), "/"),
		apiToken:  value("api_token", s.config.ChatwootAPIToken),
		accountID: value("account_id", s.config.ChatwootAccountID),
		inboxID:   value("inbox_id", s.config.ChatwootInboxID),
	}
}

var nonDigits = regexp.MustCompile(`\D`)

func (s *ChatwootService) SendMessage(ctx context.Context, phone, text string) error {
	log := s.log.Function("SendMessage")

	cw := s.resolve(ctx)
	if cw.apiToken == "" || cw.accountID == "" || cw.inboxID == "" {
		return ErrChatRelayNotConfigured
	}

	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return log.Error("phone number has no digits", "phone", phone)
	}

	contactID, err := s.findOrCreateContact(ctx, cw, digits)
	if err != nil {
		return log.Err("failed to resolve contact", err, "phone", digits)
	}

	conversationID, err := s.findOrCreateConversation(ctx, cw, contactID)
	if err != nil {
		return log.Err("failed to resolve conversation", err, "contactID", contactID)
	}

	err = s.call(ctx, cw, http.MethodPost,
		fmt.Sprintf("/conversations/%d/messages", conversationID),
		map[string]any{"content": text, "message_type": "outgoing", "private": false},
		nil,
	)
	if err != nil {
		return log.Err("failed to send message", err, "conversationID", conversationID)
	}

	log.Info("Chat message sent", "conversationID", conversationID)
	return nil
}

type chatwootContact struct {
	ID int64 `json:"id"`
}

func (s *ChatwootService) findOrCreateContact(
	ctx context.Context,
	cw chatwootSettings,
	digits string,
) (int64, error) {
	var search struct {
		Payload []chatwootContact `json:"payload"`
	}
	if err := s.call(ctx, cw, http.MethodGet, "/contacts/search?q="+url.QueryEscape(digits), nil, &search); err != nil {
		return 0, err
	}
	if len(search.Payload) > 0 {
		return search.Payload[0].ID, nil
	}

	var created struct {
		Payload struct {
			Contact chatwootContact `json:"contact"`
		} `json:"payload"`
	}
	err := s.call(ctx, cw, http.MethodPost, "/contacts", map[string]any{
		"inbox_id":     cw.inboxID,
		"name":         "+" + digits,
		"phone_number": "+" + digits,
	}, &created)
	if err != nil {
		return 0, err
	}
	if created.Payload.Contact.ID == 0 {
		return 0, errors.New("contact creation returned no id")
	}
	return created.Payload.Contact.ID, nil
}

func (s *ChatwootService) findOrCreateConversation(
	ctx context.Context,
	cw chatwootSettings,
	contactID int64,
) (int64, error) {
	var conversations struct {
		Payload []struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"payload"`
	}
	if err := s.call(ctx, cw, http.MethodGet, fmt.Sprintf("/contacts/%d/conversations", contactID), nil, &conversations); err != nil {
		return 0, err
	}
	for _, conversation := range conversations.Payload {
		if conversation.Status == "open" {
			return conversation.ID, nil
		}
	}

	var created struct {
		ID int64 `json:"id"`
	}
	err := s.call(ctx, cw, http.MethodPost, "/conversations", map[string]any{
		"inbox_id":   cw.inboxID,
		"contact_id": contactID,
	}, &created)
	if err != nil {
		return 0, err
	}
	if created.ID == 0 {
		return 0, errors.New("conversation creation returned no id")
	}
	return created.ID, nil
}

func (s *ChatwootService) call(
	ctx context.Context,
	cw chatwootSettings,
	method, path string,
	payload any,
	result any,
) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	endpoint := fmt.Sprintf("%s/api/v1/accounts/%s%s", cw.apiURL, cw.accountID, path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("api_access_token", cw.apiToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Join(ErrStorageBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: chatwoot %s %s returned %d", ErrStorageBackend, method, path, resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
