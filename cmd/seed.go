package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/photoid-studio/internal"
	"github.com/frahmantamala/photoid-studio/internal/auth"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/migration"
	"github.com/frahmantamala/photoid-studio/internal/user"
	userSqlite "github.com/frahmantamala/photoid-studio/internal/user/sqlite"
	"github.com/frahmantamala/photoid-studio/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the store with a default admin and operator",
	Long:  `Seed the store with a default admin and a sample operator for development and bench testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		db, err := openDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}

		engine, err := migration.NewEngine(db, logger.LoggerWrapper(), migration.All())
		if err != nil {
			log.Fatalf("invalid migration set: %v", err)
		}
		if err := engine.ApplyAll(context.Background()); err != nil {
			log.Fatalf("failed to migrate before seeding: %v", err)
		}

		if clearData {
			for _, table := range []string{"photo_histories", "request_histories", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("cleared existing data")
		}

		users := userSqlite.NewUserRepository(db)
		authService := auth.NewService(users, auth.Params{
			Iterations: cfg.Security.PBKDF2Iterations,
			SaltLength: cfg.Security.SaltLength,
			KeyLength:  cfg.Security.KeyLength,
		}, logger.LoggerWrapper())

		seeds := []struct {
			dto      user.CreateUserDTO
			password string
		}{
			{
				dto: user.CreateUserDTO{
					NPK:            "ADMIN001",
					Name:           "Station Admin",
					Role:           string(userDatamodel.RoleAdmin),
					DepartmentID:   "GA",
					DepartmentName: "General Affairs",
				},
				password: "admin",
			},
			{
				dto: user.CreateUserDTO{
					NPK:            "EMP001",
					Name:           "Sample Operator",
					Role:           string(userDatamodel.RoleUser),
					SectionID:      "SEC01",
					SectionName:    "Assembly",
					DepartmentID:   "PROD",
					DepartmentName: "Production",
				},
				password: "password",
			},
		}

		for _, seed := range seeds {
			hash, err := authService.HashPassword(seed.password)
			if err != nil {
				log.Fatalf("failed to hash password for %s: %v", seed.dto.NPK, err)
			}
			seed.dto.Password = hash

			if _, err := users.Create(seed.dto); err != nil {
				if internal.IsCode(err, internal.ErrCodeDuplicateNPK) {
					fmt.Printf("user %s already exists, skipping\n", seed.dto.NPK)
					continue
				}
				log.Fatalf("failed to seed user %s: %v", seed.dto.NPK, err)
			}
			fmt.Printf("seeded user %s (%s)\n", seed.dto.NPK, seed.dto.Role)
		}
	},
}
