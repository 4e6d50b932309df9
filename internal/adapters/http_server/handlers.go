package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotelbook/internal/app"
	"hotelbook/internal/domain"
)

type Handlers struct {
	Q        *app.QueryService
	Deals    *app.DealsService
	Bookings *app.BookingService
	Reviews  *app.ReviewService
	Accounts *app.AccountService
	IDs      domain.IdentityProvider
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/hotels", h.listHotels)
	s.mux.Get("/v1/hotels/{id}", h.getHotel)
	s.mux.Get("/v1/hotels/{id}/reviews", h.listReviews)
	s.mux.Get("/v1/deals", h.listDeals)

	s.mux.Post("/v1/auth/signup", h.signUp)
	s.mux.Post("/v1/auth/signin", h.signIn)
	s.mux.Post("/v1/auth/reset", h.sendReset)

	s.mux.Group(func(m chi.Router) {
		m.Use(RequireAuth(h.IDs))
		m.Post("/v1/auth/signout", h.signOut)
		m.Get("/v1/me", h.me)
		m.Patch("/v1/me", h.updateMe)
		m.Get("/v1/bookings", h.listBookings)
		m.Get("/v1/bookings/{id}", h.getBooking)
		m.Post("/v1/bookings", h.createBooking)
		m.Post("/v1/bookings/{id}/cancel", h.cancelBooking)
		m.Post("/v1/hotels/{id}/reviews", h.postReview)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// authMessage translates a provider error code into the fixed user-facing
// message. Anything unrecognized gets the generic fallback.
func authMessage(err error) string {
	switch domain.AuthCodeOf(err) {
	case domain.AuthInvalidCredential:
		return "The email or password you entered is incorrect. Please try again."
	case domain.AuthTooManyAttempts:
		return "Too many failed attempts. Please wait a few minutes and try again."
	case domain.AuthNetworkFailure:
		return "Network error. Please check your internet connection and try again."
	case domain.AuthEmailInUse:
		return "Email already in use. Please use a different email."
	case domain.AuthUserNotFound:
		return "No account found with this email address."
	case domain.AuthInvalidEmail:
		return "The email address is not valid."
	default:
		return "Something went wrong. Please try again."
	}
}

func authStatus(err error) int {
	switch domain.AuthCodeOf(err) {
	case domain.AuthInvalidCredential:
		return http.StatusUnauthorized
	case domain.AuthTooManyAttempts:
		return http.StatusTooManyRequests
	case domain.AuthEmailInUse:
		return http.StatusConflict
	case domain.AuthUserNotFound:
		return http.StatusNotFound
	case domain.AuthInvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// writeErr routes service errors to the right problem response: local
// validation failures read back verbatim, provider errors go through the
// message table, everything else is a 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "resource not found")
	case errors.Is(err, domain.ErrDatesMissing),
		errors.Is(err, domain.ErrCheckInPast),
		errors.Is(err, domain.ErrCheckOutOrder),
		errors.Is(err, domain.ErrGuestsRequired),
		errors.Is(err, domain.ErrRoomsRequired),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrFieldsRequired),
		errors.Is(err, domain.ErrInvalidEmailAddr),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordMismatch):
		writeProblem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
	case errors.Is(err, domain.ErrCancelNotAllowed):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		var ae *domain.AuthError
		if errors.As(err, &ae) {
			writeProblem(w, authStatus(err), "Authentication Failed", authMessage(err))
			return
		}
		log.Error().Err(err).Msg("internal error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
	}
}

// ---- catalog ----

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	out, err := h.Q.ListHotels(r.Context(), r.URL.Query().Get("sort"), limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Q.GetHotel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, resp)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	out, err := h.Q.ListReviews(r.Context(), chi.URLParam(r, "id"), domain.PageQuery{Limit: limit})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listDeals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Deals.Deals(r.Context()))
}

// ---- reviews ----

type postReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handlers) postReview(w http.ResponseWriter, r *http.Request) {
	var req postReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	out, err := h.Reviews.Post(r.Context(), sessionFrom(r), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// ---- auth ----

type signUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	UserID      string `json:"userId"`
	Token       string `json:"token"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func toSessionResponse(s domain.Session) sessionResponse {
	return sessionResponse{UserID: s.UserID, Token: s.Token, DisplayName: s.DisplayName, Email: s.Email}
}

func (h *Handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	sess, err := h.Accounts.SignUp(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handlers) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	sess, err := h.Accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handlers) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.SignOut(r.Context(), sessionFrom(r).Token); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) sendReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	if err := h.Accounts.SendPasswordReset(r.Context(), req.Email); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- profile ----

type updateMeRequest struct {
	Name *string `json:"name"`
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	p, err := h.Accounts.Me(r.Context(), sessionFrom(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	p, err := h.Accounts.UpdateProfile(r.Context(), sessionFrom(r), domain.ProfileUpdate{Name: req.Name})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ---- bookings ----

type createBookingRequest struct {
	HotelID         string `json:"hotelId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
	Guests          int    `json:"guests"`
	Rooms           int    `json:"rooms"`
	SpecialRequests string `json:"specialRequests"`
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListBookings(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	bv, err := h.Q.GetBooking(r.Context(), sessionFrom(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bv)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "malformed JSON")
		return
	}
	b, err := h.Bookings.Create(r.Context(), sessionFrom(r).UserID, app.BookingRequest{
		HotelID:         req.HotelID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		Rooms:           req.Rooms,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Cancel(r.Context(), sessionFrom(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
