package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample users and payment orders for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			for _, table := range []string{"memberships", "payment_transactions", "webhook_events", "payment_orders", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		demoEmail := "linh@mail.com"
		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", demoEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("demo user already exists; skipping user seed")
		} else {
			if err := db.Exec(
				"INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				demoEmail, "Linh", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert demo user: %v", err)
			}
			fmt.Println("Seeded demo user:", demoEmail)
		}

		var userID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", demoEmail).Row().Scan(&userID); err != nil {
			log.Fatalf("failed to read demo user id: %v", err)
		}

		expires := time.Now().Add(24 * time.Hour)
		orders := []struct {
			code   string
			amount int64
			typ    string
			planID *string
		}{
			{"ABC123", 99000, "membership", strPtr("pro_month")},
			{"ABC124", 990000, "membership", strPtr("pro_year")},
			{"ABC125", 150000, "one_off", nil},
		}

		for _, o := range orders {
			row := db.Raw("SELECT 1 FROM payment_orders WHERE order_code = ?", o.code).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("order already exists:", o.code)
				continue
			}
			if err := db.Exec(
				`INSERT INTO payment_orders (order_code, provider, user_id, amount_vnd, order_type, plan_id, status, expires_at, created_at, updated_at)
				 VALUES (?, 'sepay', ?, ?, ?, ?, 'pending', ?, now(), now())`,
				o.code, userID, o.amount, o.typ, o.planID, expires).Error; err != nil {
				log.Fatalf("failed to insert order %s: %v", o.code, err)
			}
			fmt.Println("Seeded order:", o.code)
		}

		fmt.Println("Seeding complete")
	},
}

func strPtr(s string) *string {
	return &s
}
