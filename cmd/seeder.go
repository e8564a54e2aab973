package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with one account per role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpg.New(gormpg.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		accounts := []struct {
			Username string
			Email    string
			RoleID   int64
		}{
			{"admin", "admin@lab.example.edu", 1},
			{"dr.hartono", "hartono@lab.example.edu", 2},
			{"tech.budi", "budi@lab.example.edu", 3},
			{"asst.sari", "sari@lab.example.edu", 4},
		}

		for _, a := range accounts {
			var exists int
			row := db.Raw("SELECT 1 FROM users WHERE username = ?", a.Username).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("user %s already exists, skipping\n", a.Username)
				continue
			}

			err := db.Exec(
				"INSERT INTO users (username, email, password_hash, role_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, 'active', now(), now())",
				a.Username, a.Email, string(hash), a.RoleID,
			).Error
			if err != nil {
				log.Fatalf("failed to insert user %s: %v", a.Username, err)
			}
			fmt.Println("Seeded user:", a.Username)
		}

		rooms := []struct {
			Name     string
			Building string
			Capacity int
		}{
			{"Physics Lab 1", "Science Building A", 30},
			{"Chemistry Lab", "Science Building B", 24},
			{"Computer Lab 2", "Engineering Building", 40},
		}

		for _, r := range rooms {
			var exists int
			row := db.Raw("SELECT 1 FROM rooms WHERE name = ?", r.Name).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Printf("room %s already exists, skipping\n", r.Name)
				continue
			}

			err := db.Exec(
				"INSERT INTO rooms (name, building, capacity, status, created_at, updated_at) VALUES (?, ?, ?, 'active', now(), now())",
				r.Name, r.Building, r.Capacity,
			).Error
			if err != nil {
				log.Fatalf("failed to insert room %s: %v", r.Name, err)
			}
			fmt.Println("Seeded room:", r.Name)
		}

		fmt.Println("Seeding complete. All accounts use password:", password)
	},
}
