package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, location, price, rating, description, image, amenities, category)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  location    = VALUES(location),
  price       = VALUES(price),
  rating      = VALUES(rating),
  description = VALUES(description),
  image       = VALUES(image),
  amenities   = VALUES(amenities),
  category    = VALUES(category),
  updated_at  = CURRENT_TIMESTAMP
`

const getHotelSQL = `
SELECT id, name, location, price, rating, description, image, amenities, category
FROM hotels
WHERE id = ?
`

// Listing order is decided here, not in Go: the catalog is small and the
// DB sorts it cheaper than a post-fetch sort would.
const listHotelsPrefix = `
SELECT id, name, location, price, rating, description, image, amenities, category
FROM hotels
`

const insertReviewSQL = `
INSERT INTO reviews
  (id, hotel_id, user_id, author, rating, comment, review_date)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

// Newest-first; aligns with the index on (hotel_id, created_at, id).
const listReviewsSQL = `
SELECT id, hotel_id, user_id, author, rating, comment, review_date
FROM reviews
WHERE hotel_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

const upsertProfileSQL = `
INSERT INTO users (id, name, email)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  name  = VALUES(name),
  email = VALUES(email)
`

const getProfileSQL = `
SELECT id, name, email, created_at
FROM users
WHERE id = ?
`

const updateDisplayNameSQL = `
UPDATE users SET name = ? WHERE id = ?
`

// booked_at is server-assigned; the insert never supplies it.
const insertBookingSQL = `
INSERT INTO bookings
  (id, user_id, hotel_id, hotel_name, hotel_image, check_in, check_out,
   guests, rooms, total_nights, total_price, special_requests, cancelled)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
`

const getBookingSQL = `
SELECT id, user_id, hotel_id, hotel_name, hotel_image, check_in, check_out,
       guests, rooms, total_nights, total_price, special_requests, cancelled, booked_at
FROM bookings
WHERE user_id = ? AND id = ?
`

const listBookingsSQL = `
SELECT id, user_id, hotel_id, hotel_name, hotel_image, check_in, check_out,
       guests, rooms, total_nights, total_price, special_requests, cancelled, booked_at
FROM bookings
WHERE user_id = ?
ORDER BY booked_at DESC, id DESC
`

// Cancellation is a flag, never a delete; history stays auditable.
const markCancelledSQL = `
UPDATE bookings SET cancelled = 1 WHERE user_id = ? AND id = ?
`
