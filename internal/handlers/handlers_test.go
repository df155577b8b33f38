package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ronins-bknd/internal/auth"
	"ronins-bknd/internal/database"
	"ronins-bknd/internal/gallery"
	"ronins-bknd/internal/models"
	"ronins-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if err := database.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedTrek(t *testing.T, db *bun.DB, name string) *models.Trek {
	t.Helper()
	trek := &models.Trek{
		Name:        name,
		Description: "A long enough description for the seeded trek",
		Duration:    "1 day",
		TrekLength:  10,
		Difficulty:  "Easy",
		MaxAltitude: 2000,
		BaseVillage: "Basecamp",
		Transport:   "Shared jeep",
		Meals:       "Breakfast",
		Sightseeing: "Fort ruins",
		Image:       "https://example.com/t.jpg",
		Price:       1999,
	}
	if _, err := db.NewInsert().Model(trek).Exec(context.Background()); err != nil {
		t.Fatalf("seed trek: %v", err)
	}
	return trek
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestAdminLogin(t *testing.T) {
	jwtMgr := auth.NewJWTManager("test-secret", "test", time.Hour)
	h := NewAdminHandler(jwtMgr, "letmein", zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/admin/login", h.Login)

	rec := doJSON(t, r, http.MethodPost, "/api/admin/login", map[string]string{"password": "letmein"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("no token in response")
	}
	if _, err := jwtMgr.VerifyToken(token); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, body["expires_at"].(string)); err != nil {
		t.Fatalf("expires_at not RFC3339: %v", err)
	}

	rec = doJSON(t, r, http.MethodPost, "/api/admin/login", map[string]string{"password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password = %d, want 401", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Invalid password" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestAdminLoginBcryptMode(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h := NewAdminHandler(auth.NewJWTManager("s", "t", time.Hour), string(hash), zap.NewNop())

	r := chi.NewRouter()
	r.Post("/login", h.Login)

	if rec := doJSON(t, r, http.MethodPost, "/login", map[string]string{"password": "hunter2"}); rec.Code != http.StatusOK {
		t.Fatalf("bcrypt login = %d", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodPost, "/login", map[string]string{"password": "hunter3"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bcrypt wrong password = %d, want 401", rec.Code)
	}
}

func TestAdminLoginRejectsUnknownFields(t *testing.T) {
	h := NewAdminHandler(auth.NewJWTManager("s", "t", time.Hour), "pw", zap.NewNop())
	r := chi.NewRouter()
	r.Post("/login", h.Login)

	rec := doJSON(t, r, http.MethodPost, "/login", map[string]string{"password": "pw", "extra": "field"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field = %d, want 400", rec.Code)
	}
}

func TestAdminVerify(t *testing.T) {
	h := NewAdminHandler(auth.NewJWTManager("s", "t", time.Hour), "pw", zap.NewNop())
	r := chi.NewRouter()
	r.Get("/verify", h.Verify)

	rec := doJSON(t, r, http.MethodGet, "/verify", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["valid"] != true {
		t.Fatalf("verify = %d %s", rec.Code, rec.Body.String())
	}
}

func trekRouter(t *testing.T, db *bun.DB) http.Handler {
	h := NewTrekHandler(services.NewTrekService(db), zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/treks", h.List)
	r.Get("/api/treks/{id}", h.Get)
	r.Post("/api/treks", h.Create)
	r.Patch("/api/treks/{id}/price", h.UpdatePrice)
	r.Patch("/api/treks/{id}/image", h.UpdateImage)
	r.Delete("/api/treks/{id}", h.Delete)
	return r
}

func TestTrekCreateValidationResponse(t *testing.T) {
	db := newTestDB(t)
	r := trekRouter(t, db)

	rec := doJSON(t, r, http.MethodPost, "/api/treks", map[string]any{
		"name":       "ab",
		"difficulty": "Impossible",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid trek = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Validation failed" {
		t.Fatalf("unexpected error: %v", body["error"])
	}
	details, ok := body["details"].([]any)
	if !ok || len(details) == 0 {
		t.Fatalf("expected itemized details, got %v", body["details"])
	}
}

func TestTrekCreateAndDuplicate(t *testing.T) {
	db := newTestDB(t)
	r := trekRouter(t, db)

	payload := map[string]any{
		"name":         "Korigad Lake Loop",
		"description":  "Easy walk around the twin lakes on the plateau",
		"duration":     "1 day",
		"trek_length":  8,
		"difficulty":   "Easy",
		"max_altitude": 3050,
		"base_village": "Peth Shahapur",
		"transport":    "Own vehicle",
		"meals":        "Lunch",
		"sightseeing":  "Korai Devi temple",
		"image":        "https://example.com/korigad.jpg",
	}

	rec := doJSON(t, r, http.MethodPost, "/api/treks", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Trek added successfully" || body["id"] == nil {
		t.Fatalf("unexpected create body: %s", rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/treks", payload)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate = %d, want 409", rec.Code)
	}
}

func TestTrekGetAndInvalidID(t *testing.T) {
	db := newTestDB(t)
	r := trekRouter(t, db)
	trek := seedTrek(t, db, "Peb Fort via Matheran")

	rec := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/treks/%d", trek.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}

	if rec := doJSON(t, r, http.MethodGet, "/api/treks/999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown trek = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, r, http.MethodGet, "/api/treks/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric id = %d, want 400", rec.Code)
	}
}

func TestTrekUpdatePriceMissingBody(t *testing.T) {
	db := newTestDB(t)
	r := trekRouter(t, db)
	trek := seedTrek(t, db, "Ratangad via Samrad")

	rec := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/treks/%d/price", trek.ID), map[string]any{})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing price" {
		t.Fatalf("missing price = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/treks/%d/price", trek.ID), map[string]any{"price": 2999})
	if rec.Code != http.StatusOK {
		t.Fatalf("update price = %d %s", rec.Code, rec.Body.String())
	}
}

func bookingRouter(db *bun.DB) http.Handler {
	h := NewBookingHandler(services.NewBookingService(db), nil, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/bookings", h.Create)
	r.Get("/api/bookings", h.List)
	r.Delete("/api/bookings/{id}", h.Delete)
	return r
}

func TestBookingCreateValidation(t *testing.T) {
	db := newTestDB(t)
	r := bookingRouter(db)
	trek := seedTrek(t, db, "Bhimashankar via Ganesh Ghat")

	base := func() map[string]any {
		return map[string]any{
			"trek_id":  trek.ID,
			"trekName": "Bhimashankar",
			"fullName": "Priya Desai",
			"contact":  "98765 43210",
			"email":    "priya@example.com",
		}
	}

	tests := []struct {
		name   string
		mutate func(map[string]any)
		code   int
		errMsg string
	}{
		{"missing name", func(m map[string]any) { m["fullName"] = " " }, http.StatusBadRequest, "Missing required fields"},
		{"bad email", func(m map[string]any) { m["email"] = "not-an-email" }, http.StatusBadRequest, "Invalid email format"},
		{"bad phone", func(m map[string]any) { m["contact"] = "call me" }, http.StatusBadRequest, "Invalid phone number format"},
		{"unknown trek", func(m map[string]any) { m["trek_id"] = 9999 }, http.StatusNotFound, "Trek not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := base()
			tt.mutate(payload)
			rec := doJSON(t, r, http.MethodPost, "/api/bookings", payload)
			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d (%s)", rec.Code, tt.code, rec.Body.String())
			}
			if errStr, _ := decodeBody(t, rec)["error"].(string); len(errStr) < len(tt.errMsg) || errStr[:len(tt.errMsg)] != tt.errMsg {
				t.Fatalf("error = %q, want prefix %q", errStr, tt.errMsg)
			}
		})
	}

	rec := doJSON(t, r, http.MethodPost, "/api/bookings", base())
	if rec.Code != http.StatusCreated {
		t.Fatalf("valid booking = %d %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["bookingId"] == nil {
		t.Fatalf("no bookingId in %s", rec.Body.String())
	}
}

func gpsRouter(db *bun.DB) http.Handler {
	h := NewGPSHandler(services.NewGPSService(db, nil), zap.NewNop())
	r := chi.NewRouter()
	r.Route("/api/gps", func(r chi.Router) {
		r.Get("/driver-treks", h.DriverTreks)
		r.Get("/active-treks", h.ActiveTreks)
		r.Post("/trek-location", h.SubmitLocation)
		r.Post("/trek-location/{id}/stop", h.Stop)
		r.Get("/trek-locations/{trekId}", h.LocationHistory)
		r.Get("/trek-details/{trekId}", h.TrekDetails)
		r.Post("/verify-driver-password", h.VerifyDriverPassword)
		r.Post("/verify-trek-password", h.VerifyTrekPassword)
		r.Post("/activate-trek", h.ActivateTrek)
		r.Get("/config", h.GetConfig)
		r.Put("/config", h.UpdateConfig)
	})
	return r
}

func TestGPSSubmitLocationMissingFields(t *testing.T) {
	db := newTestDB(t)
	r := gpsRouter(db)

	rec := doJSON(t, r, http.MethodPost, "/api/gps/trek-location", map[string]any{"trek_id": 1})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing required fields" {
		t.Fatalf("missing coords = %d %s", rec.Code, rec.Body.String())
	}
}

func TestGPSSubmitLocationAndStop(t *testing.T) {
	db := newTestDB(t)
	r := gpsRouter(db)
	trek := seedTrek(t, db, "Irshalgad Pinnacle")

	rec := doJSON(t, r, http.MethodPost, "/api/gps/trek-location", map[string]any{
		"trek_id":   trek.ID,
		"latitude":  18.93,
		"longitude": 73.26,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit = %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["live_trek_id"] == "" {
		t.Fatalf("unexpected submit body: %s", rec.Body.String())
	}

	// Stop with no body at all.
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/gps/trek-location/%d/stop", trek.ID), nil)
	stopRec := httptest.NewRecorder()
	r.ServeHTTP(stopRec, req)
	if stopRec.Code != http.StatusOK {
		t.Fatalf("stop = %d %s", stopRec.Code, stopRec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/gps/active-treks", nil)
	if rec.Code != http.StatusOK || rec.Body.String() == "" {
		t.Fatalf("active treks = %d", rec.Code)
	}
	var active []any
	if err := json.Unmarshal(rec.Body.Bytes(), &active); err != nil || len(active) != 0 {
		t.Fatalf("expected empty active list, got %s", rec.Body.String())
	}
}

func TestGPSActivateTrekMissingFields(t *testing.T) {
	db := newTestDB(t)
	r := gpsRouter(db)

	rec := doJSON(t, r, http.MethodPost, "/api/gps/activate-trek", map[string]any{
		"trek_id":       1,
		"trek_password": "x",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing fields = %d, want 400", rec.Code)
	}
}

func TestGPSVerifyTrekPasswordInactive(t *testing.T) {
	db := newTestDB(t)
	r := gpsRouter(db)
	trek := seedTrek(t, db, "Alang Madan Kulang")

	rec := doJSON(t, r, http.MethodPost, "/api/gps/verify-trek-password", map[string]any{
		"trek_id":  trek.ID,
		"password": "whatever",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["valid"] != false || body["error"] != "Trek not active" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGPSDriverPasswordConfigFlow(t *testing.T) {
	db := newTestDB(t)
	r := gpsRouter(db)

	rec := doJSON(t, r, http.MethodPost, "/api/gps/verify-driver-password", map[string]string{"password": "x"})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unconfigured password = %d, want 500", rec.Code)
	}

	rec = doJSON(t, r, http.MethodPut, "/api/gps/config", map[string]string{"driver_password": "ghat42"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update config = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/gps/verify-driver-password", map[string]string{"password": "ghat42"})
	if rec.Code != http.StatusOK || decodeBody(t, rec)["valid"] != true {
		t.Fatalf("verify = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/gps/config", nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["driver_password"] != "ghat42" {
		t.Fatalf("config = %d %s", rec.Code, rec.Body.String())
	}
}

func galleryRouter(t *testing.T) http.Handler {
	t.Helper()
	store := gallery.NewStore(t.TempDir() + "/gallery.json")
	h := NewGalleryHandler(store, zap.NewNop())
	r := chi.NewRouter()
	r.Get("/api/gallery", h.Get)
	r.Post("/api/gallery", h.Update)
	return r
}

func TestGalleryGetAndUpdate(t *testing.T) {
	r := galleryRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/gallery", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	var images []string
	if err := json.Unmarshal(rec.Body.Bytes(), &images); err != nil {
		t.Fatalf("gallery not a bare array: %s", rec.Body.String())
	}
	if len(images) != gallery.SlotCount {
		t.Fatalf("expected %d slots, got %d", gallery.SlotCount, len(images))
	}

	rec = doJSON(t, r, http.MethodPost, "/api/gallery", map[string]any{"images": nil})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Images must be an array" {
		t.Fatalf("nil images = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodPost, "/api/gallery", map[string]any{"images": []string{"a", "b"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("two images = %d, want 400", rec.Code)
	}

	six := []string{"u1", "u2", "u3", "u4", "u5", "u6"}
	rec = doJSON(t, r, http.MethodPost, "/api/gallery", map[string]any{"images": six})
	if rec.Code != http.StatusOK {
		t.Fatalf("valid update = %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/gallery", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &images); err != nil || images[0] != "u1" {
		t.Fatalf("update not persisted: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "OK" {
		t.Fatalf("unexpected health body: %s", rec.Body.String())
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Fatalf("timestamp not RFC3339: %v", err)
	}
}
