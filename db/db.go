package db

import (
	"context"
	"encoding/base64"
	"log"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	fbauth "firebase.google.com/go/auth"
	"google.golang.org/api/option"
)

// Singleton Firebase app and per-service clients.
var (
	app             *firebase.App
	firestoreClient *firestore.Client
	authClient      *fbauth.Client

	appOnce       sync.Once
	firestoreOnce sync.Once
	authOnce      sync.Once
)

// InitApp initializes the Firebase app from base64-encoded service-account
// credentials in FIREBASE_CREDENTIALS.
func InitApp() (*firebase.App, error) {
	var err error

	appOnce.Do(func() {
		// Decode credentials
		encodedCreds := os.Getenv("FIREBASE_CREDENTIALS")
		creds, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			log.Fatalf("Failed to decode Firebase credentials: %v", err)
		}

		opt := option.WithCredentialsJSON(creds)
		app, err = firebase.NewApp(context.Background(), nil, opt)
		if err != nil {
			log.Fatalf("Error initializing Firebase app: %v", err)
		}
	})

	return app, err
}

// InitFirestore initializes and returns a Firestore client.
func InitFirestore() (*firestore.Client, error) {
	var err error

	firestoreOnce.Do(func() {
		a, err := InitApp()
		if err != nil {
			log.Fatalf("Error initializing Firebase: %v", err)
		}
		firestoreClient, err = a.Firestore(context.Background())
		if err != nil {
			log.Fatalf("Error getting Firestore client: %v", err)
		}
	})

	return firestoreClient, err
}

// CloseFirestore closes the Firestore client.
func CloseFirestore() {
	if firestoreClient != nil {
		firestoreClient.Close()
	}
}

// InitAuth initializes and returns a Firebase Auth client.
func InitAuth() (*fbauth.Client, error) {
	var err error

	authOnce.Do(func() {
		a, err := InitApp()
		if err != nil {
			log.Fatalf("Error initializing Firebase: %v", err)
		}
		authClient, err = a.Auth(context.Background())
		if err != nil {
			log.Fatalf("Error getting Auth client: %v", err)
		}
	})

	return authClient, err
}
