package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"

	"go-wastewise/types"
)

const notificationsCollection = "notifications"

// Notifier records illegal-dumping alerts in the notifications collection,
// where municipal dashboards pick them up.
type Notifier struct {
	Client *firestore.Client
}

func (n *Notifier) Emit(ctx context.Context, alert types.DumpingAlert) error {
	if alert.CreatedAt == "" {
		alert.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, _, err := n.Client.Collection(notificationsCollection).Add(ctx, alert)
	if err != nil {
		return fmt.Errorf("failed to emit dumping alert for report %s: %w", alert.ReportID, err)
	}
	return nil
}
