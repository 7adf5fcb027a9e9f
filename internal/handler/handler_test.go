package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"patient-booking-api/internal/booking"
	"patient-booking-api/internal/handler"
	"patient-booking-api/internal/middleware"
	"patient-booking-api/internal/store"
)

func setup(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	secret := os.Getenv("JWT_SECRET")
	if dbURL == "" || secret == "" {
		t.Skip("DATABASE_URL or JWT_SECRET not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(pool.Close)

	if migration, err := os.ReadFile("../../db/migrations/001_init.sql"); err == nil {
		_, _ = pool.Exec(context.Background(), string(migration))
	}

	svc := booking.New(store.New(pool), secret, 30*time.Minute)
	h := handler.New(svc)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Mount(r, secret, middleware.NewRateLimiter(1000, 1000))
	return r, pool
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func seedSlot(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("doc-%s@test.com", uuid.New().String()[:8])

	var siteID, specID, docID, dsID, slotID int64
	if err := pool.QueryRow(ctx, `INSERT INTO sites (name) VALUES ('test site') RETURNING id`).Scan(&siteID); err != nil {
		t.Fatalf("seed site: %v", err)
	}
	if err := pool.QueryRow(ctx, `INSERT INTO specializations (name) VALUES ('general medicine') RETURNING id`).Scan(&specID); err != nil {
		t.Fatalf("seed specialization: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO doctors (first_name, last_name, email, password_hash) VALUES ('Doc','Tor',$1,'x') RETURNING id`, email,
	).Scan(&docID); err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	if err := pool.QueryRow(ctx,
		`INSERT INTO doctor_specializations (doctor_id, specialization_id) VALUES ($1,$2) RETURNING id`, docID, specID,
	).Scan(&dsID); err != nil {
		t.Fatalf("seed doctor specialization: %v", err)
	}
	start := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	if err := pool.QueryRow(ctx,
		`INSERT INTO slots (site_id, start_time, end_time, doctor_specialization_id) VALUES ($1,$2,$3,$4) RETURNING id`,
		siteID, start, start.Add(30*time.Minute), dsID,
	).Scan(&slotID); err != nil {
		t.Fatalf("seed slot: %v", err)
	}
	return slotID
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])

	rec := doJSON(r, "POST", "/register", "", map[string]string{
		"first_name": "Test", "last_name": "Patient",
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(r, "POST", "/login", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if body.AccessToken == "" || body.TokenType != "bearer" {
		t.Fatalf("bad login payload: %+v", body)
	}
	return body.AccessToken
}

func TestRESTBookingFlow(t *testing.T) {
	r, pool := setup(t)
	tok := registerAndLogin(t, r)
	slotID := seedSlot(t, pool)

	// slot shows up as available
	rec := doJSON(r, "GET", "/slots/available", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("available: expected 200, got %d", rec.Code)
	}
	var avail []struct {
		ID int64 `json:"id"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&avail)
	found := false
	for _, sl := range avail {
		if sl.ID == slotID {
			found = true
		}
	}
	if !found {
		t.Fatal("seeded slot not in available list")
	}

	// book it
	rec = doJSON(r, "POST", "/slots/book", tok, map[string]int64{"slot_id": slotID})
	if rec.Code != http.StatusOK {
		t.Fatalf("book: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// gone from available
	rec = doJSON(r, "GET", "/slots/available", "", nil)
	avail = nil
	_ = json.NewDecoder(rec.Body).Decode(&avail)
	for _, sl := range avail {
		if sl.ID == slotID {
			t.Error("booked slot still available")
		}
	}

	// second booking by another patient conflicts
	tok2 := registerAndLogin(t, r)
	rec = doJSON(r, "POST", "/slots/book", tok2, map[string]int64{"slot_id": slotID})
	if rec.Code != http.StatusConflict {
		t.Errorf("rebook: expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	// appears in the booker's list
	rec = doJSON(r, "GET", "/slots/booked", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("booked: expected 200, got %d", rec.Code)
	}
	var mine []struct {
		ID int64 `json:"id"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&mine)
	found = false
	for _, sl := range mine {
		if sl.ID == slotID {
			found = true
		}
	}
	if !found {
		t.Error("booked slot missing from /slots/booked")
	}
}

func TestRESTErrorClasses(t *testing.T) {
	r, pool := setup(t)
	slotID := seedSlot(t, pool)

	// malformed request body -> 400
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed register: expected 400, got %d", rec.Code)
	}

	// missing token -> 401
	if rec := doJSON(r, "POST", "/slots/book", "", map[string]int64{"slot_id": slotID}); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: expected 401, got %d", rec.Code)
	}

	// bad credentials -> 401
	rec = doJSON(r, "POST", "/login", "", map[string]string{
		"email": "nobody@nowhere.com", "password": "testpass123",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials: expected 401, got %d", rec.Code)
	}
}

func TestRESTDuplicateRegistration(t *testing.T) {
	r, _ := setup(t)
	email := fmt.Sprintf("test-%s@test.com", uuid.New().String()[:8])
	body := map[string]string{
		"first_name": "Test", "last_name": "Patient",
		"email": email, "password": "testpass123",
	}

	if rec := doJSON(r, "POST", "/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", rec.Code)
	}
	if rec := doJSON(r, "POST", "/register", "", body); rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: expected 409, got %d", rec.Code)
	}
}

func TestRESTMe(t *testing.T) {
	r, _ := setup(t)
	tok := registerAndLogin(t, r)

	rec := doJSON(r, "GET", "/me", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var p struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&p)
	if p.ID == 0 || p.Email == "" {
		t.Errorf("incomplete patient payload: %+v", p)
	}
}
