package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default manager and company info",
	Long:  `Creates the default admin manager and placeholder company info when missing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		gormDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if err := seedDefaults(gormDB, cfg.Security.BCryptCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}
	},
}

// seedDefaults inserts the default admin manager and a placeholder company
// row the way the first run of the application expects them. Safe to call
// repeatedly.
func seedDefaults(db *gorm.DB, bcryptCost int) error {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	var managerCount int64
	if err := db.Raw("SELECT COUNT(*) FROM managers").Scan(&managerCount).Error; err != nil {
		return fmt.Errorf("count managers: %w", err)
	}
	if managerCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash default password: %w", err)
		}
		if err := db.Exec("INSERT INTO managers (username, password_hash) VALUES (?, ?)", "admin", string(hash)).Error; err != nil {
			return fmt.Errorf("insert default manager: %w", err)
		}
		fmt.Println("Seeded default manager: username='admin', password='admin'")
	}

	var companyCount int64
	if err := db.Raw("SELECT COUNT(*) FROM company_info").Scan(&companyCount).Error; err != nil {
		return fmt.Errorf("count company_info: %w", err)
	}
	if companyCount == 0 {
		if err := db.Exec("INSERT INTO company_info (id, company_name, department_name) VALUES (1, ?, ?)", "My Company", "General Department").Error; err != nil {
			return fmt.Errorf("insert default company info: %w", err)
		}
		fmt.Println("Seeded default company info")
	}

	return nil
}
