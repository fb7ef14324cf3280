package main

import (
	"log"
	"os"
	"time"

	"ai-uigen-be/internal/model"
	"ai-uigen-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// Seeds a demo account with one conversation so the frontend has
// something to render against a fresh database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}

	email := "demo@uigen.local"

	var existing model.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("Demo user %s already exists (%s), nothing to do.", email, existing.Id)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user := model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Demo User",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	title := "Landing page hero"
	conv := model.Conversation{
		UserId: user.Id,
		Title:  &title,
	}
	if err := db.Create(&conv).Error; err != nil {
		log.Fatalf("Failed to create demo conversation: %v", err)
	}

	messages := []model.Message{
		{
			ConversationId: conv.Id,
			Role:           "user",
			Type:           "text",
			Version:        1,
			Data:           datatypes.JSON([]byte(`{"content":"Build me a hero section with a headline and CTA button"}`)),
		},
		{
			ConversationId: conv.Id,
			Role:           "assistant",
			Type:           "jsx",
			Version:        2,
			Data:           datatypes.JSON([]byte(`{"content":"Here is a hero section component.","component_ref":"hero-v1"}`)),
		},
	}
	for i := range messages {
		if err := db.Create(&messages[i]).Error; err != nil {
			log.Fatalf("Failed to create demo message: %v", err)
		}
	}

	component := model.Component{
		ConversationId: conv.Id,
		MessageId:      &messages[1].Id,
		Type:           "jsx",
		IsCurrent:      true,
		Data:           datatypes.JSON([]byte(`{"name":"HeroSection","code":"export default function HeroSection() { return <section><h1>Ship faster</h1><button>Get started</button></section>; }"}`)),
	}
	if err := db.Create(&component).Error; err != nil {
		log.Fatalf("Failed to create demo component: %v", err)
	}

	now := time.Now().UTC()
	quota := model.Quota{
		UserId:     user.Id,
		DailyLimit: 200,
		UsedToday:  1,
		ResetAt:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour),
	}
	if err := db.Create(&quota).Error; err != nil {
		log.Fatalf("Failed to create demo quota: %v", err)
	}

	log.Printf("Seeded demo user %s (password: demo12345) with conversation %s", email, conv.Id)
}
