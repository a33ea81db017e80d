package offline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vistoria/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestAPIClient_CreateInspection(t *testing.T) {
	created := uuid.New()
	propertyID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/inspections", r.URL.Path)
		assert.Equal(t, "Bearer agent-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Trace-ID"))

		var body InspectionPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, propertyID, body.PropertyID)
		assert.Equal(t, models.InspectionMoveIn, body.Type)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": created, "status": "IN_PROGRESS"})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL+"/", "agent-token", time.Second)
	id, err := client.CreateInspection(context.Background(), InspectionPayload{
		PropertyID: propertyID,
		Type:       models.InspectionMoveIn,
	})
	require.NoError(t, err)
	assert.Equal(t, created, id)
}

func TestAPIClient_UpdateItemRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"inspection already finalized, cannot edit"}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "", time.Second)
	err := client.UpdateItem(context.Background(), uuid.New(), uuid.New(), ItemPayload{
		Condition: models.ConditionGood,
	})

	var remoteErr *RemoteError
	require.True(t, errors.As(err, &remoteErr))
	assert.Equal(t, http.StatusBadRequest, remoteErr.Status)
	assert.Equal(t, "inspection already finalized, cannot edit", remoteErr.Message)
	assert.False(t, errors.Is(err, ErrTransient))
}

func TestAPIClient_TransientFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))

	client := NewAPIClient(server.URL, "", time.Second)
	assert.ErrorIs(t, client.Health(context.Background()), ErrTransient)

	server.Close()
	assert.ErrorIs(t, client.Health(context.Background()), ErrTransient)
}

func TestAPIClient_UploadPhoto(t *testing.T) {
	itemID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload/photo/"+itemID.String(), r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "kitchen sink", r.FormValue("caption"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "photo.png", header.Filename)

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "agent-token", time.Second)
	require.NoError(t, client.UploadPhoto(context.Background(), itemID, pngHeader, "kitchen sink"))
}
