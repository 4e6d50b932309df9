//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/shopspring/decimal"

	"hotelbook/internal/domain"
	mysqlrepo "hotelbook/internal/storage/mysql"
)

// ---------- small helpers ----------

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=hotelbook",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "hotelbook")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

// ---------- the test ----------

func TestRepo_MySQL_FullRoundTrip(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// hotels
	h1 := domain.Hotel{
		ID:        "h1",
		Name:      "Ocean View Hotel",
		Location:  "Cape Town",
		Price:     decimal.RequireFromString("250.00"),
		Rating:    4.8,
		Image:     "https://img.example/h1.jpg",
		Amenities: []string{"WiFi", "Pool"},
		Category:  "Popular",
	}
	h2 := domain.Hotel{
		ID:        "h2",
		Name:      "City Center Suites",
		Location:  "Johannesburg",
		Price:     decimal.RequireFromString("120.00"),
		Rating:    4.3,
		Amenities: []string{},
	}
	if err := repo.UpsertHotel(ctx, h1); err != nil {
		t.Fatalf("UpsertHotel h1: %v", err)
	}
	if err := repo.UpsertHotel(ctx, h2); err != nil {
		t.Fatalf("UpsertHotel h2: %v", err)
	}
	// upsert again with a new price; must update, not duplicate
	h2.Price = decimal.RequireFromString("130.00")
	if err := repo.UpsertHotel(ctx, h2); err != nil {
		t.Fatalf("UpsertHotel h2 again: %v", err)
	}

	got, err := repo.GetHotel(ctx, "h2")
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("130.00")) {
		t.Fatalf("price not updated: %s", got.Price)
	}

	byPrice, err := repo.ListHotels(ctx, domain.HotelsQuery{Sort: domain.SortPrice, Limit: 10})
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(byPrice) != 2 || byPrice[0].ID != "h2" {
		t.Fatalf("price sort wrong: %+v", byPrice)
	}

	if _, err := repo.GetHotel(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// reviews (newest-first by created_at, id)
	for i, c := range []string{"First visit", "Second visit", "Third visit"} {
		rv := domain.Review{
			ID:      fmt.Sprintf("r%d", i+1),
			HotelID: "h1",
			UserID:  "u1",
			Author:  "Ana",
			Rating:  5,
			Comment: c,
			Date:    "2024-01-15",
		}
		if err := repo.InsertReview(ctx, rv); err != nil {
			t.Fatalf("InsertReview %d: %v", i, err)
		}
	}
	revs, err := repo.ListReviews(ctx, "h1", domain.PageQuery{Limit: 2})
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(revs) != 2 || revs[0].ID != "r3" || revs[0].Date != "2024-01-15" {
		t.Fatalf("unexpected reviews page: %+v", revs)
	}

	// users
	if err := repo.UpsertProfile(ctx, domain.UserProfile{ID: "u1", Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("UpsertProfile: %v", err)
	}
	if err := repo.UpdateDisplayName(ctx, "u1", "Ana B"); err != nil {
		t.Fatalf("UpdateDisplayName: %v", err)
	}
	p, err := repo.GetProfile(ctx, "u1")
	if err != nil || p.Name != "Ana B" {
		t.Fatalf("GetProfile: %+v err=%v", p, err)
	}
	if err := repo.UpdateDisplayName(ctx, "nobody", "X"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// bookings
	b := domain.Booking{
		ID:          "b1",
		UserID:      "u1",
		HotelID:     "h1",
		HotelName:   "Ocean View Hotel",
		HotelImage:  "https://img.example/h1.jpg",
		CheckIn:     "2024-12-20",
		CheckOut:    "2024-12-23",
		Guests:      2,
		Rooms:       2,
		TotalNights: 3,
		TotalPrice:  decimal.RequireFromString("2700.00"),
	}
	created, err := repo.InsertBooking(ctx, b)
	if err != nil {
		t.Fatalf("InsertBooking: %v", err)
	}
	if created.BookedAt.IsZero() {
		t.Fatal("booked_at not assigned by the server")
	}

	fetched, err := repo.GetBooking(ctx, "u1", "b1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if fetched.CheckIn != "2024-12-20" || fetched.CheckOut != "2024-12-23" {
		t.Fatalf("dates mangled: %s / %s", fetched.CheckIn, fetched.CheckOut)
	}
	if !fetched.TotalPrice.Equal(decimal.RequireFromString("2700.00")) {
		t.Fatalf("total mangled: %s", fetched.TotalPrice)
	}
	if fetched.Cancelled {
		t.Fatal("new booking must not be cancelled")
	}

	// ownership: another user cannot read it
	if _, err := repo.GetBooking(ctx, "u2", "b1"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound for wrong user, got %v", err)
	}

	if err := repo.MarkCancelled(ctx, "u1", "b1"); err != nil {
		t.Fatalf("MarkCancelled: %v", err)
	}
	fetched, err = repo.GetBooking(ctx, "u1", "b1")
	if err != nil || !fetched.Cancelled {
		t.Fatalf("cancel flag not persisted: %+v err=%v", fetched, err)
	}

	list, err := repo.ListBookings(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("ListBookings: %+v err=%v", list, err)
	}
}
