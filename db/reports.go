package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"go-wastewise/types"
)

const reportsCollection = "waste_reports"

// ReportStore persists waste reports in Firestore.
type ReportStore struct {
	Client *firestore.Client
}

// Insert assigns the report its ID, status and timestamp and writes the
// document. The report is mutated in place so the caller sees the ID.
func (s *ReportStore) Insert(ctx context.Context, report *types.WasteReport) error {
	report.ID = uuid.NewString()
	report.Status = types.StatusPending
	report.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	_, err := s.Client.Collection(reportsCollection).Doc(report.ID).Set(ctx, report)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersist, err)
	}
	return nil
}

// ListByUser returns the user's reports, newest first.
func (s *ReportStore) ListByUser(ctx context.Context, userID string, limit int) ([]types.WasteReport, error) {
	iter := s.Client.Collection(reportsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)

	reports := []types.WasteReport{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating waste reports: %w", err)
		}

		var r types.WasteReport
		if err := doc.DataTo(&r); err != nil {
			return nil, fmt.Errorf("error decoding waste report %s: %w", doc.Ref.ID, err)
		}
		r.ID = doc.Ref.ID
		reports = append(reports, r)
	}

	return reports, nil
}
