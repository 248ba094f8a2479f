package main

import (
	"fmt"
	"log"
	"time"

	"go-wastewise/classifier"
	"go-wastewise/config"
	"go-wastewise/cronjobs"
	"go-wastewise/db"
	"go-wastewise/geocode"
	"go-wastewise/handlers"
	"go-wastewise/routes"
	"go-wastewise/zones"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Init Firebase services
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	authClient, err := db.InitAuth()
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	bucket, err := db.InitBucket(cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage bucket: %v", err)
	}

	// Heuristic classifier is the default; a vision model takes over when an
	// OpenAI key is configured.
	var clf classifier.Classifier = classifier.NewHeuristic(time.Now().UnixNano())
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("OPENAI_API_KEY loaded, using vision classifier")
		clf = classifier.NewVision(cfg.OpenAIAPIKey, clf)
	}

	matcher := zones.NewMatcher(&db.ZoneRepo{Client: firestoreClient})

	intake := &handlers.Intake{
		Verifier:   &db.TokenVerifier{Client: authClient},
		Blobs:      &db.BlobStore{Bucket: bucket, BucketName: cfg.StorageBucket},
		Classifier: clf,
		Zones:      matcher,
		Reports:    &db.ReportStore{Client: firestoreClient},
		Ledger:     &db.PointsLedger{Client: firestoreClient},
		Notifier:   &db.Notifier{Client: firestoreClient},
	}

	if cfg.MapsAPIKey != "" {
		fmt.Println("MAPS_CREDENTIALS loaded, address enrichment enabled")
		intake.Geocode = geocode.Reverse
	}

	// Initialize cron jobs
	cronjobs.InitCronJobs(matcher)

	r := routes.SetupRouter(intake)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
