package services

import (
	"bytes"
	"context"
	"fmt"
	htmlTemplate "html/template"
	"strings"
	textTemplate "text/template"
	"time"
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/events"
	"vistoria/internal/models"
	"vistoria/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const NOTIFICATION_TIMEOUT = 30 * time.Second

var finalizedEmailTemplate = htmlTemplate.Must(htmlTemplate.New("finalizedEmail").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h1>Inspection finalized</h1>
  <p>The inspection of the property below has been completed.</p>
  <p>
    <strong>Address:</strong> {{.Address}}<br>
    <strong>District:</strong> {{.District}}<br>
    <strong>Date:</strong> {{.Date}}<br>
    <strong>Inspector:</strong> {{.Inspector}}<br>
    <strong>Type:</strong> {{.Type}}
  </p>
  <p><a href="{{.ReportURL}}">View report</a></p>
</body>
</html>`))

var finalizedChatTemplate = textTemplate.Must(textTemplate.New("finalizedChat").Parse(
	`*Inspection finalized*

The inspection of your property has been completed.

*Address:* {{.Address}}
*District:* {{.District}}
*Date:* {{.Date}}
*Inspector:* {{.Inspector}}

Full report: {{.ReportURL}}`))

type finalizedNotice struct {
	Address   string
	District  string
	Date      string
	Inspector string
	Type      string
	ReportURL string
}

// NotificationService reacts to finalized inspections by mailing the inspector and
// messaging the property owner. Delivery failures are logged and never retried.
type NotificationService struct {
	db          database.DB
	inspections repositories.InspectionRepository
	mailer      Mailer
	relay       ChatRelay
	frontendURL string
	log         logger.Logger
}

func NewNotificationService(
	db database.DB,
	inspections repositories.InspectionRepository,
	mailer Mailer,
	relay ChatRelay,
	config config.Config,
) *NotificationService {
	return &NotificationService{
		db:          db,
		inspections: inspections,
		mailer:      mailer,
		relay:       relay,
		frontendURL: strings.TrimSuffix(config.FrontendURL, "/"),
		log:         logger.New("notificationService"),
	}
}

func (s *NotificationService) Register(bus *events.EventBus) error {
	return bus.Subscribe(events.INSPECTION_FINALIZED, s.HandleFinalized)
}

func (s *NotificationService) HandleFinalized(event events.Event) error {
	log := s.log.Function("HandleFinalized")

	raw, _ := event.Data["inspectionId"].(string)
	inspectionID, err := uuid.Parse(raw)
	if err != nil {
		return log.Err("event carries an invalid inspection id", err, "eventID", event.ID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), NOTIFICATION_TIMEOUT)
	defer cancel()

	return s.NotifyFinalized(ctx, inspectionID)
}

// NotifyFinalized sends both notifications and reports the first failure after attempting each.
func (s *NotificationService) NotifyFinalized(ctx context.Context, inspectionID uuid.UUID) error {
	log := s.log.Function("NotifyFinalized")

	inspection, err := s.inspections.GetDetailed(ctx, s.db.SQLWithContext(ctx), inspectionID)
	if err != nil {
		return log.Err("failed to load inspection", err, "inspectionID", inspectionID)
	}

	notice := s.buildNotice(inspection)
	var firstErr error

	if inspection.Inspector != nil && inspection.Inspector.Email != "" {
		var body bytes.Buffer
		if err := finalizedEmailTemplate.Execute(&body, notice); err != nil {
			return log.Err("failed to render email", err, "inspectionID", inspectionID)
		}

		subject := "Inspection finalized - " + notice.Address
		if err := s.mailer.Send(ctx, inspection.Inspector.Email, subject, body.String()); err != nil {
			log.Er("email notification failed", err, "inspectionID", inspectionID)
			firstErr = err
		}
	}

	if inspection.Property != nil && inspection.Property.Phone != "" {
		var text bytes.Buffer
		if err := finalizedChatTemplate.Execute(&text, notice); err != nil {
			return log.Err("failed to render chat message", err, "inspectionID", inspectionID)
		}

		if err := s.relay.SendMessage(ctx, inspection.Property.Phone, text.String()); err != nil {
			log.Er("chat notification failed", err, "inspectionID", inspectionID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (s *NotificationService) buildNotice(inspection *models.Inspection) finalizedNotice {
	notice := finalizedNotice{
		Type:      string(inspection.Type),
		ReportURL: fmt.Sprintf("%s/inspections/%s/report", s.frontendURL, inspection.ID),
	}

	if inspection.Property != nil {
		number := inspection.Property.Number
		if number == "" {
			number = "s/n"
		}
		notice.Address = inspection.Property.Street + ", " + number
		notice.District = inspection.Property.District
	}
	if inspection.Inspector != nil {
		notice.Inspector = inspection.Inspector.Name
	}
	if inspection.FinalizedAt != nil {
		notice.Date = inspection.FinalizedAt.Format("02/01/2006")
	}

	return notice
}
