package main

import (
	"fmt"
	"log"

	"github.com/Jawad-Naqvi/Call-Companion1/internal/domain/entities"
	"github.com/Jawad-Naqvi/Call-Companion1/internal/infrastructure/database"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/config"
	pkgjwt "github.com/Jawad-Naqvi/Call-Companion1/pkg/jwt"
	"github.com/Jawad-Naqvi/Call-Companion1/pkg/password"
)

const testPassword = "password1234"

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Initialize JWT manager
	jwtManager := pkgjwt.NewManager(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Define test users
	testUsers := []struct {
		Email string
		Name  string
		Role  entities.UserRole
	}{
		{Email: "admin@test.local", Name: "Admin", Role: entities.RoleAdmin},
		{Email: "alice@test.local", Name: "Alice", Role: entities.RoleEmployee},
		{Email: "bob@test.local", Name: "Bob", Role: entities.RoleEmployee},
	}

	log.Println("🗑️  Cleaning up existing test users...")
	db.Where("email LIKE ?", "%@test.local").Delete(&entities.User{})

	log.Println("🔑 Creating test users and tokens...")

	hash, err := password.Hash(testPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	for i, testUser := range testUsers {
		user := entities.NewUser(testUser.Email, hash, testUser.Name)
		user.Role = testUser.Role

		if err := db.Create(user).Error; err != nil {
			log.Printf("❌ Failed to create user %s: %v", testUser.Email, err)
			continue
		}

		accessToken, err := jwtManager.GenerateAccessToken(user.ID, user.Email, string(user.Role), user.CompanyID)
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", testUser.Email, err)
			continue
		}

		refreshToken, err := jwtManager.GenerateRefreshToken(user.ID)
		if err != nil {
			log.Printf("❌ Failed to generate refresh token for %s: %v", testUser.Email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d: %s (%s)\n", i+1, testUser.Name, testUser.Role)
		fmt.Printf("📧 Email: %s\n", user.Email)
		fmt.Printf("🔒 Password: %s\n", testPassword)
		fmt.Printf("🔑 Access Token:\n%s\n", accessToken)
		fmt.Printf("♻️  Refresh Token:\n%s\n", refreshToken)
	}

	fmt.Printf("═══════════════════════════════════════════════════════\n")
	log.Println("✅ Test users created")
}
