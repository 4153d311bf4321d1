package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"AgroLens/AI"
	"AgroLens/CronJobs"
	"AgroLens/FiberConfig"
	"AgroLens/Models"
	"AgroLens/Outbreak"
	"AgroLens/Push"
	"AgroLens/Tasks"
	"AgroLens/Weather"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := Models.Connect(envOr("DB_PATH", "database.db"))
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		log.Fatal("JWT_SECRET is not set")
	}

	// LLM advice is optional; without an endpoint recipients get generic
	// prevention text and no guide endpoint.
	var advisor AI.Advisor
	if endpoint := os.Getenv("AI_ENDPOINT"); endpoint != "" {
		advisor = AI.NewOpenAI(endpoint, os.Getenv("AI_API_KEY"), envOr("AI_MODEL", "gpt-4o-mini"))
	}

	forecaster := Weather.NewClient(envOr("WEATHER_BASE_URL", "https://api.open-meteo.com"))

	notifier := Outbreak.NewNotifier(db, advisor, nil)
	if credentials := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credentials != "" {
		pushClient, err := Push.NewClient(context.Background(), credentials)
		if err != nil {
			log.Fatal("Failed to initialize Firebase: ", err)
		}
		notifier.Push = pushClient
	}

	janitor := CronJobs.NewNotificationJanitor(db, 30*24*time.Hour)
	if err := janitor.Start(); err != nil {
		log.Printf("Failed to start notification cleanup: %v", err)
	}

	app := FiberConfig.NewApp(FiberConfig.Deps{
		DB:         db,
		Secret:     secret,
		Advisor:    advisor,
		Forecaster: forecaster,
		Notifier:   notifier,
		Generator:  Tasks.NewGenerator(forecaster),
	})

	log.Fatal(app.Listen(":" + envOr("PORT", "3001")))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
