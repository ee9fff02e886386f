package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK from environment
// credentials. Push delivery is an optional capability: when the credentials
// are not fully present this returns nil and the dispatcher runs as a no-op.
// Notifications are still persisted either way.
func InitFirebase() *firebase.App {
	projectID := os.Getenv("FIREBASE_PROJECT_ID")
	clientEmail := os.Getenv("FIREBASE_CLIENT_EMAIL")
	privateKey := os.Getenv("FIREBASE_PRIVATE_KEY")

	if projectID == "" || clientEmail == "" || privateKey == "" {
		log.Println("Firebase credentials not fully configured, push delivery disabled")
		return nil
	}

	// Env vars carry the key with literal \n sequences
	privateKey = strings.ReplaceAll(privateKey, `\n`, "\n")

	creds, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   projectID,
		"client_email": clientEmail,
		"private_key":  privateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		log.Printf("Error building firebase credentials: %v", err)
		return nil
	}

	opt := option.WithCredentialsJSON(creds)
	app, err := firebase.NewApp(context.Background(), &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		log.Printf("Error initializing firebase app: %v", err)
		return nil
	}

	log.Println("Firebase initialized")
	return app
}
