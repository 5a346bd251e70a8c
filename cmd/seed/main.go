package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/happytweet/feedback-api/internal/auth"
	"github.com/happytweet/feedback-api/internal/config"
	"github.com/happytweet/feedback-api/internal/db"
	"github.com/happytweet/feedback-api/internal/model"
	"github.com/happytweet/feedback-api/internal/repository"
)

type demoSuggestion struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	ImageURL    string
}

var demoSuggestions = []demoSuggestion{
	{
		Title:       "Dark Mode Theme",
		Description: "Add a dark mode toggle to reduce eye strain during night-time usage. This would include a system-wide color scheme that works across all pages and components.",
		Category:    "feature",
		Priority:    "high",
		Status:      model.StatusNew,
		ImageURL:    "https://images.unsplash.com/photo-1618005198919-d3d4b5a92ead?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Export Data Feature",
		Description: "Allow users to export their suggestions and statistics in various formats like CSV, JSON, and PDF for better data portability and record keeping.",
		Category:    "feature",
		Priority:    "medium",
		Status:      model.StatusInProgress,
		ImageURL:    "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Fix Login Page Responsiveness",
		Description: "The login page has layout issues on mobile devices below 375px width. Buttons overlap with input fields and the form becomes unusable.",
		Category:    "bug",
		Priority:    "high",
		Status:      model.StatusInProgress,
		ImageURL:    "https://images.unsplash.com/photo-1555421689-491a97ff2040?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Add Email Notifications",
		Description: "Implement email notifications for status updates on suggestions. Users should receive an email when their suggestion is reviewed, approved, or resolved.",
		Category:    "feature",
		Priority:    "medium",
		Status:      model.StatusNew,
		ImageURL:    "https://images.unsplash.com/photo-1596526131083-e8c633c948d2?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Improve Dashboard Loading Speed",
		Description: "Dashboard takes too long to load when there are many suggestions. Consider implementing pagination, lazy loading, or caching to improve performance.",
		Category:    "improvement",
		Priority:    "medium",
		Status:      model.StatusNew,
		ImageURL:    "https://images.unsplash.com/photo-1551288049-bebda4e38f71?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Add Search Functionality",
		Description: "Add a search bar to quickly find specific suggestions by title, description, or category. This will greatly improve usability as the number of suggestions grows.",
		Category:    "improvement",
		Priority:    "high",
		Status:      model.StatusResolved,
		ImageURL:    "https://images.unsplash.com/photo-1589652717521-10c0d092dea9?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Mobile App Development",
		Description: "Develop native mobile applications for iOS and Android platforms to provide a better user experience on mobile devices with offline support.",
		Category:    "feature",
		Priority:    "low",
		Status:      model.StatusNew,
		ImageURL:    "https://images.unsplash.com/photo-1512941937669-90a1b58e7e9c?w=800&auto=format&fit=crop",
	},
	{
		Title:       "Two-Factor Authentication",
		Description: "Add 2FA support for enhanced account security. Users should be able to enable authentication via SMS, email, or authenticator apps.",
		Category:    "feature",
		Priority:    "high",
		Status:      model.StatusResolved,
		ImageURL:    "https://images.unsplash.com/photo-1555421689-3f034debb7a6?w=800&auto=format&fit=crop",
	},
}

func main() {
	var (
		adminEmail    = flag.String("email", "admin@happytweet.com", "admin account email")
		adminUsername = flag.String("username", "admin", "admin account username")
		adminPassword = flag.String("password", "Admin@123", "admin account password")
		adminFullName = flag.String("name", "Admin User", "admin account full name")
		promote       = flag.String("promote", "", "email of an existing user to promote to admin instead of creating one")
		demo          = flag.Bool("demo", false, "also insert demo suggestions distributed among regular users")
	)
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(gormDB)
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Suggestion{},
		&model.DeveloperNote{},
		&model.ActivityLog{},
		&model.Attachment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	suggestionRepo := repository.NewSuggestionRepository(gormDB)
	ctx := context.Background()

	if *promote != "" {
		if err := promoteUser(ctx, userRepo, *promote); err != nil {
			log.Fatalf("Failed to promote user: %v", err)
		}
	} else {
		if err := createAdmin(ctx, userRepo, *adminUsername, *adminEmail, *adminPassword, *adminFullName); err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
	}

	if *demo {
		added, skipped, err := seedDemoSuggestions(ctx, userRepo, suggestionRepo)
		if err != nil {
			log.Fatalf("Failed to seed demo suggestions: %v", err)
		}
		log.Printf("Demo suggestions: %d added, %d skipped", added, skipped)
	}

	log.Println("Seed completed successfully")
}

// createAdmin creates the admin account unless one with the same email or
// username already exists.
func createAdmin(ctx context.Context, repo repository.UserRepository, username, email, password, fullName string) error {
	email = strings.ToLower(email)
	username = strings.ToLower(username)

	exists, err := repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Admin user already exists (email=%s username=%s), nothing to do", email, username)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         auth.RoleAdmin,
		IsActive:     true,
	}
	if err := repo.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("Admin user created: email=%s username=%s", email, username)
	log.Println("Change the password after first login")
	return nil
}

// promoteUser sets role=admin on an existing user looked up by email.
func promoteUser(ctx context.Context, repo repository.UserRepository, email string) error {
	email = strings.ToLower(email)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Fatalf("User %s not found", email)
		}
		return err
	}
	if user.Role == auth.RoleAdmin {
		log.Printf("User %s is already an admin", email)
		return nil
	}

	if _, err := repo.UpdateFields(ctx, user.ID, map[string]interface{}{"role": auth.RoleAdmin}); err != nil {
		return err
	}
	log.Printf("User %s promoted to admin", email)
	return nil
}

// seedDemoSuggestions inserts the demo data set, distributing ownership
// round-robin among regular users. Titles that already exist are skipped.
func seedDemoSuggestions(ctx context.Context, users repository.UserRepository, suggestions repository.SuggestionRepository) (added, skipped int, err error) {
	all, _, err := users.List(ctx, "", 0, 1000)
	if err != nil {
		return 0, 0, err
	}
	regular := make([]model.User, 0, len(all))
	for _, u := range all {
		if u.Role == auth.RoleUser {
			regular = append(regular, u)
		}
	}
	if len(regular) == 0 {
		log.Println("No regular users found, create some accounts first")
		return 0, 0, nil
	}
	log.Printf("Found %d user(s) to distribute suggestions among", len(regular))

	for i, d := range demoSuggestions {
		existing, _, err := suggestions.List(ctx, repository.SuggestionFilter{Search: d.Title, Limit: 1})
		if err != nil {
			return added, skipped, err
		}
		if len(existing) > 0 && existing[0].Title == d.Title {
			log.Printf("Skipping %q (already exists)", d.Title)
			skipped++
			continue
		}

		owner := regular[i%len(regular)]
		s := &model.Suggestion{
			Title:       d.Title,
			Description: d.Description,
			ImageURL:    d.ImageURL,
			Category:    d.Category,
			Priority:    d.Priority,
			Status:      d.Status,
			UserID:      owner.ID,
		}
		if err := suggestions.Create(ctx, s); err != nil {
			return added, skipped, err
		}
		log.Printf("Added %q for user %s", d.Title, owner.Username)
		added++
	}
	return added, skipped, nil
}
