package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"go-wastewise/types"
)

const zonesCollection = "illegal_dumping_zones"

// ZoneRepo reads illegal-dumping zones from Firestore. Zone documents are
// maintained by municipal tooling; this service never writes them.
type ZoneRepo struct {
	Client *firestore.Client
}

func (r *ZoneRepo) ListActive(ctx context.Context) ([]types.DumpingZone, error) {
	iter := r.Client.Collection(zonesCollection).
		Where("isActive", "==", true).
		Documents(ctx)

	var zones []types.DumpingZone
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating dumping zones: %w", err)
		}

		var z types.DumpingZone
		if err := doc.DataTo(&z); err != nil {
			return nil, fmt.Errorf("error decoding dumping zone %s: %w", doc.Ref.ID, err)
		}
		z.ID = doc.Ref.ID
		zones = append(zones, z)
	}

	return zones, nil
}
