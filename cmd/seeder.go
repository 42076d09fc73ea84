package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/hospital-records/internal/auth"
	authPostgres "github.com/frahmantamala/hospital-records/internal/auth/postgres"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default accounts",
	Long:  `Seed one account per role. Safe to re-run: existing accounts are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		repo := authPostgres.NewRepository(gormDB)

		accounts := []struct {
			Username string
			Password string
			Role     string
		}{
			{"admin", "adminpass", auth.RoleAdmin},
			{"doctor", "docpass", auth.RoleDoctor},
			{"receptionist", "recpass", auth.RoleReceptionist},
		}

		for _, a := range accounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cfg.Security.BCryptCost)
			if err != nil {
				log.Fatalf("failed to hash password for %s: %v", a.Username, err)
			}
			if err := repo.EnsureUser(a.Username, string(hash), a.Role); err != nil {
				log.Fatalf("failed to seed user %s: %v", a.Username, err)
			}
			fmt.Printf("Seeded user: %s (%s)\n", a.Username, a.Role)
		}

		fmt.Println("Default accounts seeded successfully")
	},
}
