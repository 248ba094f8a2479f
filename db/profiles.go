package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const profilesCollection = "profiles"

// PointsLedger holds each user's cumulative EcoPoints balance in their
// profile document.
type PointsLedger struct {
	Client *firestore.Client
}

// Increment adds delta to the user's ecoPoints inside a transaction, creating
// the profile document if the user has never earned points before.
func (l *PointsLedger) Increment(ctx context.Context, userID string, delta int) error {
	docRef := l.Client.Collection(profilesCollection).Doc(userID)

	err := l.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return tx.Set(docRef, map[string]interface{}{
					"ecoPoints": delta,
				}, firestore.MergeAll)
			}
			return err
		}

		current := int64(0)
		if v, ok := doc.Data()["ecoPoints"].(int64); ok {
			current = v
		}

		return tx.Set(docRef, map[string]interface{}{
			"ecoPoints": current + int64(delta),
		}, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("failed to credit %d points to %s: %w", delta, userID, err)
	}

	return nil
}
