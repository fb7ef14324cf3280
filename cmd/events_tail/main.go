package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ai-uigen-be/pkg/events"
	pktNats "ai-uigen-be/pkg/nats"

	"github.com/joho/godotenv"
)

// Tails the EVENTS stream. Handy for checking that login and share
// events actually reach NATS while poking the API locally.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "events-tail-debug", func(ctx context.Context, event events.Event) error {
		pretty, _ := json.MarshalIndent(event.Payload(), "", "  ")
		log.Printf("[%s]\n%s", event.EventType(), pretty)
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	log.Println("Tailing events.> (Ctrl+C to stop)")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
