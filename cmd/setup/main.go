package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"alumninet/backend/internal/database"
	"alumninet/backend/internal/models"
	"alumninet/backend/internal/seeders"
)

// Interactive first-run setup: connects to the database, applies the schema,
// seeds default settings and creates the first account.
func main() {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("--- AlumniNet Setup ---")

	fmt.Println("\n--- Database Configuration ---")
	dbHost := prompt(reader, "Enter Database Host (e.g., localhost or 'db' if using docker-compose): ")
	dbPort := prompt(reader, "Enter Database Port (e.g., 5432): ")
	dbUser := prompt(reader, "Enter Database User: ")
	dbPassword := prompt(reader, "Enter Database Password: ")
	dbName := prompt(reader, "Enter Database Name: ")
	dbSSLMode := prompt(reader, "Enter Database SSL Mode (e.g., disable, require): ")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)

	if err := database.ConnectDB(dsn); err != nil {
		log.Fatalf("Failed to connect to database during setup: %v", err)
	}
	fmt.Println("Successfully connected to the database.")

	db := database.GetDB()
	if err := seeders.FullSetup(db); err != nil {
		log.Fatalf("Failed to prepare database during setup: %v", err)
	}
	fmt.Println("Database schema and default settings are in place.")

	fmt.Println("\n--- First Account Setup ---")
	username := prompt(reader, "Enter Username: ")
	name := prompt(reader, "Enter Full Name: ")
	email := prompt(reader, "Enter Email: ")
	password := prompt(reader, "Enter Password: ")

	if len(password) < 6 {
		log.Fatal("Password needs to be at least 6 characters long.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password during setup: %v", err)
	}

	user := models.User{
		Username:     username,
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create the first account during setup: %v", err)
	}
	fmt.Printf("Account '%s' created successfully with ID: %s\n", user.Username, user.ID)

	fmt.Println("\n--- Setup Complete ---")
	fmt.Println("AlumniNet initial setup is complete.")
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	value, _ := reader.ReadString('\n')
	return strings.TrimSpace(value)
}
