package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ticketry/internal/events"
	"ticketry/internal/shared/config"
	"ticketry/internal/shared/database"
	"ticketry/internal/shared/migrations"
	"ticketry/internal/users"

	"github.com/joho/godotenv"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting Ticketry database seeder...")

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db.GetPostgreSQL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"waiting_list",
		"bookings",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds users and events, then flushes Redis so cached event
// statuses do not survive the reset.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedUsers(); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedEvents(); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to clear Redis cache: %v", err)
	}

	return nil
}

// SeedUsers creates a handful of test accounts, all with password "qwerty".
func (s *Seeder) SeedUsers() error {
	fmt.Println("  Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		username string
		email    string
	}{
		{"alice", "alice@example.com"},
		{"bob", "bob@example.com"},
		{"carol", "carol@example.com"},
		{"dave", "dave@example.com"},
		{"erin", "erin@example.com"},
	}

	for _, userData := range usersData {
		user := users.User{
			Username:     userData.username,
			Email:        userData.email,
			PasswordHash: string(hashedPassword),
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		fmt.Printf("    Created user: %s\n", user.Email)
	}

	return nil
}

// SeedEvents creates events with varied pool sizes, including a tiny one
// for exercising the waiting list quickly.
func (s *Seeder) SeedEvents() error {
	fmt.Println("  Seeding events...")

	eventsData := []struct {
		name         string
		totalTickets int
	}{
		{"Go Conference 2026", 100},
		{"Jazz Night", 25},
		{"Standup Comedy Showcase", 10},
		{"Secret Warehouse Gig", 2},
	}

	for _, eventData := range eventsData {
		event := events.Event{
			Name:             eventData.name,
			TotalTickets:     eventData.totalTickets,
			AvailableTickets: eventData.totalTickets,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", event.Name, err)
		}

		fmt.Printf("    Created event: %s (%d tickets)\n", event.Name, event.TotalTickets)
	}

	return nil
}
