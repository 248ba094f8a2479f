package cronjobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"go-wastewise/zones"
)

// InitCronJobs schedules the background jobs. The zone snapshot refresh keeps
// the matcher's fail-open fallback recent even when no reports are coming in.
func InitCronJobs(matcher *zones.Matcher) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Zone snapshot refresh: every 10 minutes
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("\nCronJob: Dumping Zone Refresh Running")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := matcher.Refresh(ctx); err != nil {
			log.Println("Error refreshing dumping zones:", err)
		}
	})
	if err != nil {
		log.Println("Error scheduling Dumping Zone Refresh:", err)
	}

	c.Start()
}
