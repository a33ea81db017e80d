package services

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"
	"vistoria/config"
	"vistoria/internal/database"
	"vistoria/internal/models"
	"vistoria/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

var conditionLabels = map[models.Condition]string{
	models.ConditionGood:          "Good",
	models.ConditionFair:          "Fair",
	models.ConditionPoor:          "Poor",
	models.ConditionNotApplicable: "N/A",
	models.ConditionUnverified:    "Not verified",
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Inspection - {{.Address}}</title>
<style>
  body { font-family: Arial, sans-serif; margin: 40px; color: #333; }
  h1 { color: #1a365d; border-bottom: 2px solid #1a365d; padding-bottom: 10px; }
  h3 { background: #edf2f7; padding: 10px; margin: 20px 0 10px; }
  table { width: 100%; border-collapse: collapse; margin-bottom: 15px; }
  th, td { border: 1px solid #e2e8f0; padding: 8px; text-align: left; }
  .photos img { max-width: 200px; max-height: 150px; margin: 4px; }
  .footer { margin-top: 50px; border-top: 1px solid #ccc; padding-top: 20px; font-size: 12px; color: #666; }
</style>
</head>
<body>
  <h1>Inspection Report</h1>
  <p><strong>Type:</strong> {{.Type}}</p>
  <p><strong>Status:</strong> {{.Status}}</p>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Inspector:</strong> {{.Inspector}}</p>
  <h2>Property</h2>
  <p><strong>Address:</strong> {{.Address}}</p>
  <p><strong>District:</strong> {{.District}}</p>
  <p><strong>City:</strong> {{.City}}</p>
  <p><strong>Type:</strong> {{.PropertyType}}</p>
  <h2>Checklist by room</h2>
  {{range .Rooms}}
  <div class="room">
    <h3>{{.Name}}</h3>
    <table>
      <tr><th>Item</th><th>Condition</th><th>Note</th></tr>
      {{range .Items}}<tr><td>{{.Label}}</td><td>{{.Condition}}</td><td>{{if .Note}}{{.Note}}{{else}}-{{end}}</td></tr>
      {{end}}
    </table>
    {{if .Photos}}<div class="photos">{{range .Photos}}<img src="{{.}}">{{end}}</div>{{end}}
  </div>
  {{end}}
  {{if .Notes}}<h2>General notes</h2><p>{{.Notes}}</p>{{end}}
  {{if .ClientName}}<p><strong>Client:</strong> {{.ClientName}}</p>{{end}}
  <div class="footer"><p>Generated at {{.GeneratedAt}}</p></div>
</body>
</html>`))

type reportItem struct {
	Label     string
	Condition string
	Note      string
}

type reportRoom struct {
	Name   string
	Items  []reportItem
	Photos []string
}

type reportView struct {
	Type         string
	Status       string
	Date         string
	Inspector    string
	Address      string
	District     string
	City         string
	PropertyType string
	Rooms        []*reportRoom
	Notes        string
	ClientName   string
	GeneratedAt  string
}

type ReportService struct {
	db          database.DB
	inspections repositories.InspectionRepository
	appURL      string
	now         func() time.Time
	log         logger.Logger
}

func NewReportService(
	db database.DB,
	inspections repositories.InspectionRepository,
	config config.Config,
) *ReportService {
	return &ReportService{
		db:          db,
		inspections: inspections,
		appURL:      strings.TrimSuffix(config.AppURL, "/"),
		now:         time.Now,
		log:         logger.New("reportService"),
	}
}

// RenderHTML renders the printable report of an inspection, items grouped by room
// in checklist order.
func (s *ReportService) RenderHTML(ctx context.Context, inspectionID uuid.UUID) ([]byte, error) {
	log := s.log.Function("RenderHTML")

	inspection, err := s.inspections.GetDetailed(ctx, s.db.SQLWithContext(ctx), inspectionID)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := reportTemplate.Execute(&out, s.buildView(inspection)); err != nil {
		return nil, log.Err("failed to render report", err, "inspectionID", inspectionID)
	}

	return out.Bytes(), nil
}

func (s *ReportService) buildView(inspection *models.Inspection) reportView {
	view := reportView{
		Type:        string(inspection.Type),
		Status:      string(inspection.Status),
		Date:        inspection.InspectedAt.Format("02/01/2006"),
		Notes:       inspection.Notes,
		ClientName:  inspection.ClientName,
		GeneratedAt: s.now().Format("02/01/2006 15:04"),
	}

	if inspection.Inspector != nil {
		view.Inspector = inspection.Inspector.Name
	}

	if p := inspection.Property; p != nil {
		number := p.Number
		if number == "" {
			number = "s/n"
		}
		view.Address = p.Street + ", " + number
		view.District = p.District
		view.City = p.City + " - " + p.State
		view.PropertyType = string(p.Type)
	}

	byRoom := map[uuid.UUID]*reportRoom{}
	for _, item := range inspection.Items {
		room, ok := byRoom[item.RoomID]
		if !ok {
			name := "Room"
			if item.Room != nil {
				name = item.Room.Name
			}
			room = &reportRoom{Name: name}
			byRoom[item.RoomID] = room
			view.Rooms = append(view.Rooms, room)
		}

		label, ok := conditionLabels[item.Condition]
		if !ok {
			label = string(item.Condition)
		}
		room.Items = append(room.Items, reportItem{
			Label:     string(item.Label),
			Condition: label,
			Note:      item.Note,
		})
		for _, photo := range item.Photos {
			room.Photos = append(room.Photos, s.photoURL(photo.URL))
		}
	}

	return view
}

func (s *ReportService) photoURL(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return s.appURL + url
}
