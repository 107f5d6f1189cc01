package main

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"arbeitsrapport/models"
)

var db *gorm.DB

func initDB() {
	if cfg.DSN == "" {
		log.Fatal().Msg("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres database")
	}

	// Ensure the roles master table exists first and seed it so the users FK
	// can be applied safely.
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Warn().Err(err).Msg("migration warning (roles)")
		}
	}
	seedRoles()

	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others.
		for name, model := range map[string]any{
			"users":          &models.User{},
			"reports":        &models.Report{},
			"work_objects":   &models.WorkObject{},
			"smtp_settings":  &models.SMTPSetting{},
			"refresh_tokens": &models.RefreshToken{},
		} {
			if err := db.AutoMigrate(model); err != nil {
				log.Warn().Err(err).Str("table", name).Msg("migration warning")
			}
		}
	}

	seedDB()
}

func seedRoles() {
	roles := []models.Role{
		{Name: "administrator", Description: "full access"},
		{Name: "user", Description: "regular user"},
	}
	for _, r := range roles {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
}

func seedDB() {
	seedRoles()

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		var role models.Role
		if err := db.Where("name = ?", "administrator").First(&role).Error; err != nil {
			log.Warn().Err(err).Msg("failed to find administrator role")
		}
		rid := role.ID
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{
			Username:       "admin",
			HashedPassword: hashedPassword,
			RoleID:         &rid,
		}
		db.Create(&admin)
		log.Info().Msg("Seeded admin user: username=admin, password=admin123")
	}
}
