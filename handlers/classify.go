package handlers

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go-wastewise/classifier"
	"go-wastewise/types"
	"go-wastewise/zones"
)

// Collaborators the intake pipeline depends on. Firestore/Firebase
// implementations live in the db package; tests inject fakes.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type BlobStore interface {
	Put(ctx context.Context, data []byte, path string) (string, error)
}

type ReportStore interface {
	Insert(ctx context.Context, report *types.WasteReport) error
	ListByUser(ctx context.Context, userID string, limit int) ([]types.WasteReport, error)
}

type PointsLedger interface {
	Increment(ctx context.Context, userID string, delta int) error
}

type Notifier interface {
	Emit(ctx context.Context, alert types.DumpingAlert) error
}

// ReverseGeocoder resolves coordinates to a street address. Optional.
type ReverseGeocoder func(ctx context.Context, lat, lon float64) (string, error)

const (
	// ~10MB raw, base64-inflated.
	maxImageBase64Bytes = 13_000_000

	basePoints = 10

	defaultCallTimeout = 10 * time.Second
)

// Intake handles waste report submissions.
type Intake struct {
	Verifier   TokenVerifier
	Blobs      BlobStore
	Classifier classifier.Classifier
	Zones      *zones.Matcher
	Reports    ReportStore
	Ledger     PointsLedger
	Notifier   Notifier
	Geocode    ReverseGeocoder // nil disables address enrichment

	CallTimeout time.Duration
}

func (h *Intake) callTimeout() time.Duration {
	if h.CallTimeout > 0 {
		return h.CallTimeout
	}
	return defaultCallTimeout
}

// ClassifyWaste is POST /api/wastewise/classify: validate, store the image,
// classify, geofence, persist, credit points and notify, in that order.
// Validation failures return before any external write happens.
func (h *Intake) ClassifyWaste(c *gin.Context) {
	userID, ok := h.authenticate(c)
	if !ok {
		return
	}

	var req types.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	if req.Image == "" || req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: image, latitude, longitude"})
		return
	}

	lat, lon := *req.Latitude, *req.Longitude
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid GPS coordinates"})
		return
	}

	if len(req.Image) > maxImageBase64Bytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large. Maximum size is 10MB"})
		return
	}

	imageBytes, err := decodeImage(req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image encoding"})
		return
	}

	// Upload the image. Without a stored image there is no report.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	imagePath := fmt.Sprintf("waste-reports/%s/%d.jpg", userID, time.Now().UnixMilli())
	imageURL, err := h.Blobs.Put(ctx, imageBytes, imagePath)
	cancel()
	if err != nil {
		log.Printf("Image upload failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
		return
	}

	result := h.Classifier.Classify(c.Request.Context(), imageBytes, req.Filename)

	ctx, cancel = context.WithTimeout(c.Request.Context(), h.callTimeout())
	isIllegal := h.Zones.IsIllegalDumpingZone(ctx, lat, lon)
	cancel()

	points := pointsFor(result.Confidence)

	report := &types.WasteReport{
		UserID:           userID,
		ImageURL:         imageURL,
		WasteType:        result.WasteType,
		DisposalMethod:   types.DisposalMethodFor(result.WasteType),
		Latitude:         lat,
		Longitude:        lon,
		Confidence:       result.Confidence,
		PointsAwarded:    points,
		IsIllegalDumping: isIllegal,
		Address:          h.lookupAddress(c.Request.Context(), lat, lon),
	}

	ctx, cancel = context.WithTimeout(c.Request.Context(), h.callTimeout())
	err = h.Reports.Insert(ctx, report)
	cancel()
	if err != nil {
		log.Printf("Failed to persist waste report for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save waste report"})
		return
	}

	gpsLocation := formatLocation(lat, lon)
	h.runBestEffort(c.Request.Context(), report, gpsLocation)

	message := "✅ Waste classified successfully! Thank you for helping keep our environment clean."
	if isIllegal {
		message = "⚠️ Illegal dumping detected! Municipal authorities have been notified."
	}

	c.JSON(http.StatusOK, types.ClassifyResponse{
		Status:           "success",
		WasteType:        string(result.WasteType),
		DisposalMethod:   report.DisposalMethod,
		Confidence:       math.Round(result.Confidence*100) / 100,
		EcoPointsAwarded: points,
		GPSLocation:      gpsLocation,
		IsIllegalDumping: isIllegal,
		Message:          message,
	})
}

// authenticate resolves the bearer token to a user ID, writing the 401
// response itself when the token is missing or invalid.
func (h *Intake) authenticate(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
		return "", false
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	defer cancel()
	userID, err := h.Verifier.Verify(ctx, token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization"})
		return "", false
	}

	return userID, true
}

// runBestEffort credits points and, for illegal dumping, emits the alert.
// Both run concurrently; failures are logged once and never fail the request.
func (h *Intake) runBestEffort(parent context.Context, report *types.WasteReport, gpsLocation string) {
	pointsErr := make(chan error, 1)
	notifyErr := make(chan error, 1)

	go func() {
		ctx, cancel := context.WithTimeout(parent, h.callTimeout())
		defer cancel()
		pointsErr <- h.Ledger.Increment(ctx, report.UserID, report.PointsAwarded)
	}()

	go func() {
		if !report.IsIllegalDumping {
			notifyErr <- nil
			return
		}
		ctx, cancel := context.WithTimeout(parent, h.callTimeout())
		defer cancel()
		notifyErr <- h.Notifier.Emit(ctx, types.DumpingAlert{
			Type:     "illegal_dumping",
			Title:    "Illegal Dumping Detected",
			Message:  fmt.Sprintf("New illegal dumping report at %s", gpsLocation),
			ReportID: report.ID,
			Priority: "high",
		})
	}()

	if err := <-pointsErr; err != nil {
		log.Printf("Failed to award points to %s: %v", report.UserID, err)
	}
	if err := <-notifyErr; err != nil {
		log.Printf("Failed to send dumping notification for report %s: %v", report.ID, err)
	}
}

// lookupAddress is best-effort enrichment; an empty address is fine.
func (h *Intake) lookupAddress(parent context.Context, lat, lon float64) string {
	if h.Geocode == nil {
		return ""
	}
	ctx, cancel := context.WithTimeout(parent, h.callTimeout())
	defer cancel()
	addr, err := h.Geocode(ctx, lat, lon)
	if err != nil {
		log.Printf("Reverse geocoding failed for %f,%f: %v", lat, lon, err)
		return ""
	}
	return addr
}

// pointsFor applies the tiered award: base 10, plus a confidence bonus.
func pointsFor(confidence float64) int {
	switch {
	case confidence > 0.9:
		return basePoints + 5
	case confidence > 0.8:
		return basePoints + 3
	default:
		return basePoints
	}
}

func formatLocation(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// decodeImage strips an optional data-URL prefix and decodes the base64
// payload.
func decodeImage(image string) ([]byte, error) {
	if idx := strings.Index(image, ","); idx != -1 && strings.HasPrefix(image, "data:") {
		image = image[idx+1:]
	}
	return base64.StdEncoding.DecodeString(image)
}
