package db

import (
	"context"
	"log"

	"github.com/tonzxz/ipophil-dms-sub000/internal/action"
	"github.com/tonzxz/ipophil-dms-sub000/internal/agency"
	"github.com/tonzxz/ipophil-dms-sub000/internal/document"
	"github.com/tonzxz/ipophil-dms-sub000/internal/notification"
	"github.com/tonzxz/ipophil-dms-sub000/internal/user"
)

// Migrate runs database migrations
func Migrate() {
	err := AppDb.AutoMigrate(
		&agency.Agency{},
		&action.DocumentAction{},
		&user.User{},
		&document.Document{},
		&document.TrailEvent{},
		&notification.Notification{},
	)

	if err != nil {
		log.Fatal(err)
	}

	log.Println("Database schema migrated successfully")
}

// SeedData seeds the database with initial reference data and a test user
// (for development only)
func SeedData() {
	ctx := context.Background()

	var agencyCount int64
	AppDb.Model(&agency.Agency{}).Count(&agencyCount)
	if agencyCount == 0 {
		agencies := []agency.Agency{
			{Name: "Records Section", Code: "REC"},
			{Name: "Legal Division", Code: "LEG"},
			{Name: "Finance Division", Code: "FIN"},
			{Name: "Office of the Director", Code: "OD"},
		}
		if err := AppDb.Create(&agencies).Error; err != nil {
			log.Printf("Error seeding agencies: %v", err)
		}
	}

	var actionCount int64
	AppDb.Model(&action.DocumentAction{}).Count(&actionCount)
	if actionCount == 0 {
		actions := []action.DocumentAction{
			{Name: "For Signature", ForSender: true},
			{Name: "For Approval", ForSender: true},
			{Name: "For Comment", ForSender: true},
			{Name: "Signed", ForRecipient: true},
			{Name: "Approved", ForRecipient: true},
			{Name: "Commented", ForRecipient: true},
		}
		if err := AppDb.Create(&actions).Error; err != nil {
			log.Printf("Error seeding document actions: %v", err)
		}
	}

	userRepo := user.NewRepository(AppDb)

	testUser := &user.User{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "password123",
		AgencyID: 1,
	}

	// Check if user exists
	_, err := userRepo.FindByEmail(ctx, testUser.Email)
	if err != nil {
		userService := user.NewService(userRepo)
		if err := userService.Register(ctx, testUser); err != nil {
			log.Printf("Error creating test user: %v", err)
		} else {
			log.Printf("Created test user: %s", testUser.Email)
		}
	} else {
		log.Printf("Test user already exists: %s", testUser.Email)
	}
}
