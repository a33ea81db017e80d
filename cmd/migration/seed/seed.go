package seed

import (
	"errors"
	"time"
	"vistoria/config"
	. "vistoria/internal/models"
	"vistoria/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

const seedPassword = "password"

type seedUser struct {
	Name  string
	Email string
	Role  Role
}

var users = []seedUser{
	{Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin},
	{Name: "Ana Inspector", Email: "ana@example.com", Role: RoleInspector},
	{Name: "Bruno Broker", Email: "bruno@example.com", Role: RoleBroker},
}

// Seed fills a development database with users, one property and a move-in
// inspection that is half checked.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	if !config.IsDevelopment() {
		return log.Error("refusing to seed outside development", "environment", config.Environment)
	}

	var inspector User
	for _, user := range users {
		created, err := seedAccount(db, user, log)
		if err != nil {
			return err
		}
		if user.Role == RoleInspector {
			inspector = created
		}
	}

	property := Property{
		Type:      PropertyApartment,
		Street:    "Rua das Flores",
		Number:    "120",
		District:  "Centro",
		City:      "Curitiba",
		State:     "PR",
		OwnerName: "Carla Souza",
		Active:    true,
	}
	for i, name := range DefaultRooms {
		property.Rooms = append(property.Rooms, Room{Name: name, DisplayOrder: i + 1, Exists: true})
	}
	if err := db.Create(&property).Error; err != nil {
		return log.Err("failed to create property", err)
	}
	log.Info("Seeded property", "propertyID", property.ID, "rooms", len(property.Rooms))

	items, _ := services.GenerateChecklist(property.Rooms, nil)
	for i := range items {
		if i%2 == 0 {
			items[i].Condition = ConditionGood
		}
	}

	inspection := Inspection{
		PropertyID:  property.ID,
		InspectorID: inspector.ID,
		Type:        InspectionMoveIn,
		Status:      StatusInProgress,
		InspectedAt: time.Now(),
		Version:     1,
		Items:       items,
	}
	if err := db.Create(&inspection).Error; err != nil {
		return log.Err("failed to create inspection", err)
	}
	log.Info("Seeded inspection", "inspectionID", inspection.ID, "items", len(items))

	return nil
}

func seedAccount(db *gorm.DB, user seedUser, log logger.Logger) (User, error) {
	var existing User
	err := db.First(&existing, "email = ?", user.Email).Error
	if err == nil {
		log.Info("User already exists", "email", user.Email)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, log.Err("failed to look up user", err, "email", user.Email)
	}

	hash, err := services.HashPassword(seedPassword)
	if err != nil {
		return User{}, log.Err("failed to hash password", err)
	}

	created := User{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: hash,
		Role:         user.Role,
		IsActive:     true,
	}
	if err := db.Create(&created).Error; err != nil {
		return User{}, log.Err("failed to create user", err, "email", user.Email)
	}

	log.Info("Seeded user", "email", user.Email)
	return created, nil
}
