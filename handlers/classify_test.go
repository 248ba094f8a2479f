package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-wastewise/classifier"
	"go-wastewise/types"
	"go-wastewise/zones"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- fakes -----------------------------------------------------------------

type fakeVerifier struct {
	uid   string
	err   error
	calls int
}

func (f *fakeVerifier) Verify(_ context.Context, token string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.uid, nil
}

type fakeBlobs struct {
	err      error
	calls    int
	lastPath string
	lastData []byte
}

func (f *fakeBlobs) Put(_ context.Context, data []byte, path string) (string, error) {
	f.calls++
	f.lastPath = path
	f.lastData = data
	if f.err != nil {
		return "", f.err
	}
	return "https://storage.example.com/" + path, nil
}

type fakeReports struct {
	insertErr error
	inserted  []*types.WasteReport
}

func (f *fakeReports) Insert(_ context.Context, r *types.WasteReport) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	r.ID = "report-1"
	r.Status = types.StatusPending
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeReports) ListByUser(context.Context, string, int) ([]types.WasteReport, error) {
	var out []types.WasteReport
	for _, r := range f.inserted {
		out = append(out, *r)
	}
	return out, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	err     error
	credits map[string]int
	calls   int
}

func (f *fakeLedger) Increment(_ context.Context, userID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.credits == nil {
		f.credits = map[string]int{}
	}
	f.credits[userID] += delta
	return nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	err    error
	events []types.DumpingAlert
}

func (f *fakeNotifier) Emit(_ context.Context, alert types.DumpingAlert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, alert)
	return nil
}

type fakeZoneRepo struct {
	zones []types.DumpingZone
	err   error
}

func (f *fakeZoneRepo) ListActive(context.Context) ([]types.DumpingZone, error) {
	return f.zones, f.err
}

// --- harness ---------------------------------------------------------------

type harness struct {
	verifier *fakeVerifier
	blobs    *fakeBlobs
	reports  *fakeReports
	ledger   *fakeLedger
	notifier *fakeNotifier
	zoneRepo *fakeZoneRepo
	router   *gin.Engine
}

func newHarness() *harness {
	h := &harness{
		verifier: &fakeVerifier{uid: "user-1"},
		blobs:    &fakeBlobs{},
		reports:  &fakeReports{},
		ledger:   &fakeLedger{},
		notifier: &fakeNotifier{},
		zoneRepo: &fakeZoneRepo{},
	}

	intake := &Intake{
		Verifier:   h.verifier,
		Blobs:      h.blobs,
		Classifier: classifier.NewHeuristic(1),
		Zones:      zones.NewMatcher(h.zoneRepo),
		Reports:    h.reports,
		Ledger:     h.ledger,
		Notifier:   h.notifier,
	}

	h.router = gin.New()
	h.router.POST("/api/wastewise/classify", intake.ClassifyWaste)
	h.router.GET("/api/wastewise/reports", intake.ListReports)
	h.router.GET("/api/wastewise/zones", intake.ListZones)
	return h
}

func (h *harness) post(t *testing.T, body map[string]interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/wastewise/classify", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) types.ClassifyResponse {
	t.Helper()
	var resp types.ClassifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func plasticBody() map[string]interface{} {
	return map[string]interface{}{
		"image":     base64.StdEncoding.EncodeToString([]byte("jpeg image bytes")),
		"filename":  "plastic_bottle.jpg",
		"latitude":  0.0,
		"longitude": 0.0,
	}
}

// --- scenarios -------------------------------------------------------------

func TestClassifyPlasticBottleNoZones(t *testing.T) {
	h := newHarness()

	w := h.post(t, plasticBody(), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeResponse(t, w)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Plastic", resp.WasteType)
	assert.Greater(t, resp.Confidence, 0.85)
	assert.False(t, resp.IsIllegalDumping)
	assert.GreaterOrEqual(t, resp.EcoPointsAwarded, 10)
	assert.Equal(t, "0,0", resp.GPSLocation)
	assert.Equal(t, types.DisposalMethods[types.Plastic], resp.DisposalMethod)
	assert.Contains(t, resp.Message, "classified successfully")

	require.Len(t, h.reports.inserted, 1)
	report := h.reports.inserted[0]
	assert.Equal(t, "user-1", report.UserID)
	assert.Equal(t, types.Plastic, report.WasteType)
	assert.False(t, report.IsIllegalDumping)
	assert.True(t, strings.HasPrefix(report.ImageURL, "https://storage.example.com/waste-reports/user-1/"))

	assert.Equal(t, resp.EcoPointsAwarded, h.ledger.credits["user-1"])
	assert.Empty(t, h.notifier.events, "no notification without illegal dumping")
}

func TestClassifyInsideActiveZoneNotifiesOnce(t *testing.T) {
	h := newHarness()
	h.zoneRepo.zones = []types.DumpingZone{
		{Latitude: 0, Longitude: 0, RadiusMeters: 100, IsActive: true},
	}

	w := h.post(t, plasticBody(), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.IsIllegalDumping)
	assert.Contains(t, resp.Message, "Illegal dumping detected")

	require.Len(t, h.notifier.events, 1, "notification must be emitted exactly once")
	event := h.notifier.events[0]
	assert.Equal(t, "illegal_dumping", event.Type)
	assert.Equal(t, "high", event.Priority)
	assert.Equal(t, "report-1", event.ReportID)
	assert.Contains(t, event.Message, "0,0")
}

func TestClassifyMissingAuthHeader(t *testing.T) {
	h := newHarness()

	w := h.post(t, plasticBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing authorization header")

	assert.Zero(t, h.blobs.calls, "no storage write before auth")
	assert.Empty(t, h.reports.inserted, "no report persisted")
	assert.Zero(t, h.verifier.calls)
}

func TestClassifyInvalidToken(t *testing.T) {
	h := newHarness()
	h.verifier.err = errors.New("token expired")

	w := h.post(t, plasticBody(), "Bearer stale")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid authorization")
	assert.Zero(t, h.blobs.calls)
}

func TestClassifyOutOfRangeLatitude(t *testing.T) {
	h := newHarness()

	body := plasticBody()
	body["latitude"] = 95.0

	w := h.post(t, body, "Bearer good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid GPS coordinates")
	assert.Zero(t, h.blobs.calls, "pipeline must halt before image upload")
	assert.Empty(t, h.reports.inserted)
}

func TestClassifyOversizedImage(t *testing.T) {
	h := newHarness()

	body := plasticBody()
	body["image"] = strings.Repeat("A", maxImageBase64Bytes+1)

	w := h.post(t, body, "Bearer good-token")
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Image too large")
	assert.Zero(t, h.blobs.calls)
	assert.Empty(t, h.reports.inserted)
}

func TestClassifyMissingFields(t *testing.T) {
	h := newHarness()

	for _, missing := range []string{"image", "latitude", "longitude"} {
		body := plasticBody()
		delete(body, missing)

		w := h.post(t, body, "Bearer good-token")
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s", missing)
		assert.Contains(t, w.Body.String(), "Missing required fields")
	}
}

func TestClassifyInvalidBase64(t *testing.T) {
	h := newHarness()

	body := plasticBody()
	body["image"] = "!!!not-base64!!!"

	w := h.post(t, body, "Bearer good-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid image encoding")
	assert.Zero(t, h.blobs.calls)
}

func TestClassifyAcceptsDataURLPrefix(t *testing.T) {
	h := newHarness()

	body := plasticBody()
	body["image"] = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpeg image bytes"))

	w := h.post(t, body, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []byte("jpeg image bytes"), h.blobs.lastData)
}

func TestClassifyStorageFailureAborts(t *testing.T) {
	h := newHarness()
	h.blobs.err = errors.New("bucket unavailable")

	w := h.post(t, plasticBody(), "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to upload image")
	assert.Empty(t, h.reports.inserted, "no report without an image reference")
	assert.Zero(t, h.ledger.calls)
}

func TestClassifyPersistFailureAborts(t *testing.T) {
	h := newHarness()
	h.reports.insertErr = errors.New("firestore down")

	w := h.post(t, plasticBody(), "Bearer good-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to save waste report")
	assert.Zero(t, h.ledger.calls, "no points without a persisted report")
	assert.Empty(t, h.notifier.events)
}

func TestClassifyLedgerFailureStillSucceeds(t *testing.T) {
	h := newHarness()
	h.ledger.err = errors.New("profile store down")

	w := h.post(t, plasticBody(), "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.GreaterOrEqual(t, resp.EcoPointsAwarded, 10)
	assert.Len(t, h.reports.inserted, 1, "report exists even when points crediting fails")
}

func TestClassifyNotifierFailureStillSucceeds(t *testing.T) {
	h := newHarness()
	h.zoneRepo.zones = []types.DumpingZone{
		{Latitude: 0, Longitude: 0, RadiusMeters: 100, IsActive: true},
	}
	h.notifier.err = errors.New("sink down")

	w := h.post(t, plasticBody(), "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.True(t, resp.IsIllegalDumping)
	assert.Len(t, h.reports.inserted, 1)
}

func TestClassifyZoneFetchFailureFailsOpen(t *testing.T) {
	h := newHarness()
	h.zoneRepo.err = errors.New("zones unavailable")

	w := h.post(t, plasticBody(), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.False(t, resp.IsIllegalDumping)
	assert.Empty(t, h.notifier.events)
}

func TestClassifyConfidenceRoundedToTwoDecimals(t *testing.T) {
	h := newHarness()

	w := h.post(t, plasticBody(), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	rounded := float64(int(resp.Confidence*100+0.5)) / 100
	assert.InDelta(t, rounded, resp.Confidence, 1e-9)
}

func TestClassifyGPSLocationFormat(t *testing.T) {
	h := newHarness()

	body := plasticBody()
	body["latitude"] = 12.9716
	body["longitude"] = 77.5946

	w := h.post(t, body, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "12.9716,77.5946", resp.GPSLocation)
}

func TestListReportsReturnsOwnReports(t *testing.T) {
	h := newHarness()

	w := h.post(t, plasticBody(), "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/wastewise/reports", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Reports []types.WasteReport `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Reports, 1)
	assert.Equal(t, types.Plastic, body.Reports[0].WasteType)
}

func TestListZones(t *testing.T) {
	h := newHarness()
	h.zoneRepo.zones = []types.DumpingZone{
		{ID: "z1", Latitude: 1, Longitude: 2, RadiusMeters: 50, IsActive: true},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/wastewise/zones", nil)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Zones []types.DumpingZone `json:"zones"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Zones, 1)
	assert.Equal(t, 50.0, body.Zones[0].RadiusMeters)
}

func TestPointsForTiers(t *testing.T) {
	assert.Equal(t, 15, pointsFor(0.95))
	assert.Equal(t, 15, pointsFor(0.91))
	assert.Equal(t, 13, pointsFor(0.85))
	assert.Equal(t, 10, pointsFor(0.80))
	assert.Equal(t, 10, pointsFor(0.60))
}
