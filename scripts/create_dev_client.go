package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type OAuthClient struct {
	ID          string `gorm:"primaryKey"`
	Secret      string `gorm:"not null"`
	Name        string
	Domain      string
	Scopes      string
	GrantTypes  string
	RedirectURI string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OAuthClient) TableName() string {
	return "oauth_clients"
}

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string
	Email        string `gorm:"uniqueIndex;not null"`
	Password     string
	Role         string `gorm:"default:'user'"`
	AuthProvider string `gorm:"default:'email'"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func main() {
	// Parse command line flags
	dbPath := flag.String("db", "finwise.sqlite", "Path to the SQLite database")
	clientID := flag.String("client-id", "finwise-web", "Client ID to register")
	clientSecret := flag.String("client-secret", "dev-secret-123", "Client secret (stored hashed)")
	adminEmail := flag.String("admin-email", "", "Also create an admin user with this email")
	adminPassword := flag.String("admin-password", "changeme", "Password for the admin user")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Check if client already exists
	var existing OAuthClient
	if err := db.Where("id = ?", *clientID).First(&existing).Error; err == nil {
		fmt.Printf("Client '%s' already exists\n", *clientID)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(*clientSecret), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("Failed to hash secret:", err)
		}

		client := OAuthClient{
			ID:         *clientID,
			Secret:     string(hash),
			Name:       "FinWise Web",
			Domain:     "http://localhost",
			Scopes:     "read write",
			GrantTypes: "implicit refresh_token",
		}
		if err := db.Create(&client).Error; err != nil {
			log.Fatal("Failed to create client:", err)
		}

		fmt.Println("✓ First-party web client created!")
		fmt.Printf("Client ID: %s\n", *clientID)
		fmt.Printf("Client Secret: %s\n", *clientSecret)
	}

	if *adminEmail != "" {
		createAdminUser(db, *adminEmail, *adminPassword)
	}
}

// createAdminUser gets or creates an admin user for local development
func createAdminUser(db *gorm.DB, email, password string) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err == nil {
		fmt.Printf("Found existing user: %s (ID: %d, Role: %s)\n", user.Email, user.ID, user.Role)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user = User{
		Username:     "admin",
		Email:        email,
		Password:     string(hash),
		Role:         "admin",
		AuthProvider: "email",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	fmt.Printf("Created admin user: %s (ID: %d)\n", user.Email, user.ID)
}
