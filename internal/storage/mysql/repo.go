package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"hotelbook/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// ---- hotels ----

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	amen, _ := json.Marshal(h.Amenities)
	_, err := r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		h.Location,
		h.Price.String(),
		h.Rating,
		h.Description,
		h.Image,
		string(amen),
		h.Category,
	)
	return err
}

func scanHotel(row interface{ Scan(...any) error }) (domain.Hotel, error) {
	var h domain.Hotel
	var price string
	var amenitiesJSON []byte
	if err := row.Scan(
		&h.ID, &h.Name, &h.Location, &price, &h.Rating,
		&h.Description, &h.Image, &amenitiesJSON, &h.Category,
	); err != nil {
		return domain.Hotel{}, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return domain.Hotel{}, err
	}
	h.Price = d
	_ = json.Unmarshal(amenitiesJSON, &h.Amenities)
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err == sql.ErrNoRows {
		return domain.Hotel{}, domain.ErrNotFound
	}
	return h, err
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	order := " ORDER BY id"
	switch q.Sort {
	case domain.SortPrice:
		order = " ORDER BY price ASC, id"
	case domain.SortRating:
		order = " ORDER BY rating DESC, id"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.QueryContext(ctx, listHotelsPrefix+order+" LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// ---- reviews ----

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) error {
	_, err := r.db.ExecContext(ctx, insertReviewSQL,
		rv.ID, rv.HotelID, rv.UserID, rv.Author, rv.Rating, rv.Comment, rv.Date,
	)
	return err
}

func (r *Repo) ListReviews(ctx context.Context, hotelID string, pg domain.PageQuery) ([]domain.Review, error) {
	limit := pg.Limit
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, hotelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rv domain.Review
		var reviewDate sql.NullTime
		if err := rows.Scan(&rv.ID, &rv.HotelID, &rv.UserID, &rv.Author, &rv.Rating, &rv.Comment, &reviewDate); err != nil {
			return nil, err
		}
		if reviewDate.Valid {
			rv.Date = reviewDate.Time.Format(domain.DateLayout)
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ---- users ----

func (r *Repo) UpsertProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL, p.ID, p.Name, p.Email)
	return err
}

func (r *Repo) GetProfile(ctx context.Context, id string) (domain.UserProfile, error) {
	var p domain.UserProfile
	var created sql.NullTime
	err := r.db.QueryRowContext(ctx, getProfileSQL, id).Scan(&p.ID, &p.Name, &p.Email, &created)
	if err == sql.ErrNoRows {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if created.Valid {
		p.CreatedAt = created.Time
	}
	return p, nil
}

func (r *Repo) UpdateDisplayName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx, updateDisplayNameSQL, name, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ---- bookings ----

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID, b.UserID, b.HotelID, b.HotelName, b.HotelImage,
		b.CheckIn, b.CheckOut, b.Guests, b.Rooms,
		b.TotalNights, b.TotalPrice.String(), b.SpecialRequests,
	)
	if err != nil {
		return domain.Booking{}, err
	}
	// read back for the server-assigned booked_at
	return r.GetBooking(ctx, b.UserID, b.ID)
}

func scanBooking(row interface{ Scan(...any) error }) (domain.Booking, error) {
	var b domain.Booking
	var checkIn, checkOut sql.NullTime
	var total string
	var bookedAt time.Time
	if err := row.Scan(
		&b.ID, &b.UserID, &b.HotelID, &b.HotelName, &b.HotelImage,
		&checkIn, &checkOut, &b.Guests, &b.Rooms,
		&b.TotalNights, &total, &b.SpecialRequests, &b.Cancelled, &bookedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	if checkIn.Valid {
		b.CheckIn = checkIn.Time.Format(domain.DateLayout)
	}
	if checkOut.Valid {
		b.CheckOut = checkOut.Time.Format(domain.DateLayout)
	}
	d, err := decimal.NewFromString(total)
	if err != nil {
		return domain.Booking{}, err
	}
	b.TotalPrice = d
	b.BookedAt = bookedAt
	return b, nil
}

func (r *Repo) GetBooking(ctx context.Context, userID, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, userID, id))
	if err == sql.ErrNoRows {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, listBookingsSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) MarkCancelled(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, markCancelledSQL, userID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
