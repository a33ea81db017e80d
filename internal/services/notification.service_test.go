package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/models"
	"vistoria/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject+"|"+html)
	return m.err
}

type recordingRelay struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingRelay) SendMessage(_ context.Context, phone, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, phone+"|"+text)
	return r.err
}

func seedFinalized(t *testing.T, db database.DB, phone string) *models.Inspection {
	t.Helper()

	inspector := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: models.RoleInspector, IsActive: true}
	require.NoError(t, db.SQL.Create(inspector).Error)

	property := &models.Property{
		Type: models.PropertyHouse, Street: "Rua A", Number: "5", District: "Centro",
		City: "Curitiba", State: "PR", Phone: phone, Active: true,
	}
	require.NoError(t, db.SQL.Create(property).Error)

	finalizedAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	inspection := &models.Inspection{
		PropertyID:  property.ID,
		InspectorID: inspector.ID,
		Type:        models.InspectionMoveOut,
		Status:      models.StatusFinalized,
		InspectedAt: finalizedAt,
		FinalizedAt: &finalizedAt,
		Version:     2,
	}
	require.NoError(t, db.SQL.Create(inspection).Error)
	return inspection
}

func TestNotificationService_SendsBoth(t *testing.T) {
	db := setupSQLite(t)
	inspection := seedFinalized(t, db, "+55 41 90000-0000")

	mailer := &recordingMailer{}
	relay := &recordingRelay{}
	notifier := NewNotificationService(db, repositories.NewInspectionRepository(), mailer, relay,
		config.Config{FrontendURL: "https://app.example.com/"})

	require.NoError(t, notifier.NotifyFinalized(context.Background(), inspection.ID))

	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0], "ana@example.com|Inspection finalized - Rua A, 5|")
	assert.Contains(t, mailer.sent[0], "https://app.example.com/inspections/"+inspection.ID.String()+"/report")
	assert.Contains(t, mailer.sent[0], "09/03/2026")

	require.Len(t, relay.sent, 1)
	assert.Contains(t, relay.sent[0], "+55 41 90000-0000|")
	assert.Contains(t, relay.sent[0], "*Inspector:* Ana")
}

func TestNotificationService_SkipsRelayWithoutPhone(t *testing.T) {
	db := setupSQLite(t)
	inspection := seedFinalized(t, db, "")

	mailer := &recordingMailer{}
	relay := &recordingRelay{}
	notifier := NewNotificationService(db, repositories.NewInspectionRepository(), mailer, relay, config.Config{})

	require.NoError(t, notifier.NotifyFinalized(context.Background(), inspection.ID))
	assert.Len(t, mailer.sent, 1)
	assert.Empty(t, relay.sent)
}

func TestNotificationService_FailuresAreIndependent(t *testing.T) {
	db := setupSQLite(t)
	inspection := seedFinalized(t, db, "123")

	mailer := &recordingMailer{err: errors.New("smtp down")}
	relay := &recordingRelay{}
	notifier := NewNotificationService(db, repositories.NewInspectionRepository(), mailer, relay, config.Config{})

	err := notifier.NotifyFinalized(context.Background(), inspection.ID)
	assert.EqualError(t, err, "smtp down")
	assert.Len(t, relay.sent, 1, "relay still attempted after mail failure")
}

func TestNotificationService_ConsumesEvents(t *testing.T) {
	db := setupSQLite(t)
	inspection := seedFinalized(t, db, "")

	mailer := &recordingMailer{}
	notifier := NewNotificationService(db, repositories.NewInspectionRepository(), mailer, &recordingRelay{}, config.Config{})

	bus := events.New(nil)
	defer bus.Close()
	require.NoError(t, notifier.Register(bus))

	require.NoError(t, bus.PublishInspectionFinalized(inspection.ID, uuid.New()))
	bus.Wait()

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Len(t, mailer.sent, 1)
}
