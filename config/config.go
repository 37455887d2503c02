package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mkraemer/craftmarket/internal/helpers"
	"github.com/mkraemer/craftmarket/internal/models"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
	}, nil
}

// reservedUsernames may not be registered; they belong to the seeded guest
// accounts.
var reservedUsernames = map[string]bool{
	"andrey": true,
	"kevin":  true,
}

func IsReservedUsername(username string) bool {
	return reservedUsernames[username]
}

func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := enableUUIDExtension(db); err != nil {
		return nil, err
	}

	if err := MigrateModels(db); err != nil {
		return nil, err
	}

	if err := SeedGuestAccounts(db); err != nil {
		return nil, err
	}
	if err := seedAdminAccount(db); err != nil {
		return nil, err
	}

	return db, nil
}

// MigrateModels runs the schema migration for every domain model.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Profile{},
		&models.Offer{},
		&models.OfferDetail{},
		&models.Order{},
		&models.Review{},
	)
}

type guestAccount struct {
	username     string
	password     string
	email        string
	profileType  string
	firstName    string
	lastName     string
	location     string
	tel          string
	description  string
	workingHours string
}

// SeedGuestAccounts creates the demo customer and business accounts with
// their profiles and tokens. Idempotent: existing usernames are skipped.
func SeedGuestAccounts(db *gorm.DB) error {
	guests := []guestAccount{
		{
			username:     "andrey",
			password:     "asdasd",
			email:        "andrey@guest.de",
			profileType:  models.ProfileTypeCustomer,
			firstName:    "Andrey",
			lastName:     "Guest",
			location:     "Hamburg",
			tel:          "0123456789",
			description:  "Guest account",
			workingHours: "9-17",
		},
		{
			username:     "kevin",
			password:     "asdasd24",
			email:        "kevin@guest.de",
			profileType:  models.ProfileTypeBusiness,
			firstName:    "Kevin",
			lastName:     "Demo",
			location:     "Berlin",
			tel:          "030123456",
			description:  "Demo Company",
			workingHours: "9-17",
		},
	}

	for _, guest := range guests {
		var existing models.User
		if err := db.Where("username = ?", guest.username).First(&existing).Error; err == nil {
			continue
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(guest.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			user := models.User{
				Username: guest.username,
				Email:    guest.email,
				Password: string(hashed),
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}

			profile := models.Profile{
				UserID:       user.ID,
				Type:         guest.profileType,
				FirstName:    guest.firstName,
				LastName:     guest.lastName,
				Location:     guest.location,
				Tel:          guest.tel,
				Description:  guest.description,
				WorkingHours: guest.workingHours,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}

			_, err := helpers.GetOrCreateToken(tx, user.ID)
			return err
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// seedAdminAccount creates a staff user from ADMIN_USERNAME/ADMIN_PASSWORD
// when both are set. Staff accounts are the only ones allowed to delete
// orders.
func seedAdminAccount(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return nil
	}

	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: username,
		Email:    os.Getenv("ADMIN_EMAIL"),
		Password: string(hashed),
		IsStaff:  true,
	}
	return db.Create(&admin).Error
}
