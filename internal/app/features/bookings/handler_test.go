package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/domain/models"
	"github.com/quickstay/quickstay-api/internal/testutil"
)

type fakeBookingStore struct {
	taken    bool
	created  []models.Booking
	byUser   []models.Booking
	byHotel  []models.Booking
	overlaps int
}

func (f *fakeBookingStore) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	b.ID = primitive.NewObjectID()
	f.created = append(f.created, b)
	return b, nil
}

func (f *fakeBookingStore) OverlapExists(ctx context.Context, roomID primitive.ObjectID, in, out time.Time) (bool, error) {
	f.overlaps++
	return f.taken, nil
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return f.byUser, nil
}

func (f *fakeBookingStore) ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Booking, error) {
	return f.byHotel, nil
}

type fakeRoomStore struct {
	room *models.Room
}

func (f *fakeRoomStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Room, error) {
	if f.room == nil || f.room.ID != id {
		return nil, mongo.ErrNoDocuments
	}
	return f.room, nil
}

type fakeHotelStore struct {
	hotel *models.Hotel
}

func (f *fakeHotelStore) GetByOwner(ctx context.Context, owner string) (*models.Hotel, error) {
	if f.hotel == nil {
		return nil, mongo.ErrNoDocuments
	}
	return f.hotel, nil
}

func newHandler(bs *fakeBookingStore, rs *fakeRoomStore, hs *fakeHotelStore) *Handler {
	return NewHandler(bs, rs, hs, zap.NewNop(), true)
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return testutil.WithUser(req, testutil.GuestUser())
}

func TestCheckAvailabilityHandler(t *testing.T) {
	roomID := primitive.NewObjectID()

	tests := []struct {
		name  string
		taken bool
		want  bool
	}{
		{"free room", false, true},
		{"taken room", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bs := &fakeBookingStore{taken: tt.taken}
			h := newHandler(bs, &fakeRoomStore{}, &fakeHotelStore{})

			body := `{"room":"` + roomID.Hex() + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-12"}`
			rec := testutil.NewRecorder()
			h.CheckAvailabilityHandler(rec.ResponseRecorder,
				httptest.NewRequest(http.MethodPost, "/api/bookings/check-availability", strings.NewReader(body)))

			rec.AssertStatus(t, http.StatusOK)

			var got struct {
				Success     bool `json:"success"`
				IsAvailable bool `json:"isAvailable"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if !got.Success {
				t.Error("success = false, want true")
			}
			if got.IsAvailable != tt.want {
				t.Errorf("isAvailable = %v, want %v", got.IsAvailable, tt.want)
			}
		})
	}
}

func TestCheckAvailabilityHandler_Validation(t *testing.T) {
	roomID := primitive.NewObjectID().Hex()
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{`},
		{"bad room id", `{"room":"xyz","checkInDate":"2026-09-10","checkOutDate":"2026-09-12"}`},
		{"bad date", `{"room":"` + roomID + `","checkInDate":"tomorrow","checkOutDate":"2026-09-12"}`},
		{"reversed range", `{"room":"` + roomID + `","checkInDate":"2026-09-12","checkOutDate":"2026-09-10"}`},
		{"zero-night stay", `{"room":"` + roomID + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-10"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&fakeBookingStore{}, &fakeRoomStore{}, &fakeHotelStore{})

			rec := testutil.NewRecorder()
			h.CheckAvailabilityHandler(rec.ResponseRecorder,
				httptest.NewRequest(http.MethodPost, "/api/bookings/check-availability", strings.NewReader(tt.body)))

			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, "Validation failed")
		})
	}
}

func TestBookHandler_Success(t *testing.T) {
	room := &models.Room{
		ID:         primitive.NewObjectID(),
		HotelID:    primitive.NewObjectID(),
		PriceNight: 100,
	}
	bs := &fakeBookingStore{}
	h := newHandler(bs, &fakeRoomStore{room: room}, &fakeHotelStore{})

	body := `{"room":"` + room.ID.Hex() + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-13","guests":2}`
	rec := testutil.NewRecorder()
	h.BookHandler(rec.ResponseRecorder, authedRequest(http.MethodPost, "/api/bookings/book", body))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Booking created successfully")

	if len(bs.created) != 1 {
		t.Fatalf("created bookings = %d, want 1", len(bs.created))
	}
	b := bs.created[0]
	if b.TotalPrice != 300 {
		t.Errorf("totalPrice = %v, want 300 (3 nights x 100)", b.TotalPrice)
	}
	if b.RoomID != room.ID || b.HotelID != room.HotelID {
		t.Error("booking should reference the room and its hotel")
	}
	if b.PaymentMethod != models.PayAtHotel {
		t.Errorf("paymentMethod = %q, want %q", b.PaymentMethod, models.PayAtHotel)
	}
}

func TestBookHandler_RoomTaken(t *testing.T) {
	room := &models.Room{ID: primitive.NewObjectID(), PriceNight: 100}
	bs := &fakeBookingStore{taken: true}
	h := newHandler(bs, &fakeRoomStore{room: room}, &fakeHotelStore{})

	body := `{"room":"` + room.ID.Hex() + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-12","guests":1}`
	rec := testutil.NewRecorder()
	h.BookHandler(rec.ResponseRecorder, authedRequest(http.MethodPost, "/api/bookings/book", body))

	rec.AssertStatus(t, http.StatusConflict)
	if len(bs.created) != 0 {
		t.Errorf("created bookings = %d, want 0", len(bs.created))
	}
}

func TestBookHandler_UnknownRoom(t *testing.T) {
	h := newHandler(&fakeBookingStore{}, &fakeRoomStore{}, &fakeHotelStore{})

	body := `{"room":"` + primitive.NewObjectID().Hex() + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-12","guests":1}`
	rec := testutil.NewRecorder()
	h.BookHandler(rec.ResponseRecorder, authedRequest(http.MethodPost, "/api/bookings/book", body))

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestBookHandler_GuestsRequired(t *testing.T) {
	room := &models.Room{ID: primitive.NewObjectID(), PriceNight: 100}
	h := newHandler(&fakeBookingStore{}, &fakeRoomStore{room: room}, &fakeHotelStore{})

	body := `{"room":"` + room.ID.Hex() + `","checkInDate":"2026-09-10","checkOutDate":"2026-09-12"}`
	rec := testutil.NewRecorder()
	h.BookHandler(rec.ResponseRecorder, authedRequest(http.MethodPost, "/api/bookings/book", body))

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestUserListHandler(t *testing.T) {
	bs := &fakeBookingStore{byUser: []models.Booking{
		{ID: primitive.NewObjectID(), TotalPrice: 300},
	}}
	h := newHandler(bs, &fakeRoomStore{}, &fakeHotelStore{})

	rec := testutil.NewRecorder()
	h.UserListHandler(rec.ResponseRecorder, authedRequest(http.MethodGet, "/api/bookings/user", ""))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"count":1`)
}

func TestHotelListHandler_Dashboard(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	bs := &fakeBookingStore{byHotel: []models.Booking{
		{ID: primitive.NewObjectID(), TotalPrice: 300},
		{ID: primitive.NewObjectID(), TotalPrice: 150},
	}}
	h := newHandler(bs, &fakeRoomStore{}, &fakeHotelStore{hotel: hotel})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/hotel", nil)
	req = testutil.WithUser(req, testutil.OwnerUser())

	rec := testutil.NewRecorder()
	h.HotelListHandler(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Success       bool `json:"success"`
		DashboardData struct {
			Bookings      []models.Booking `json:"bookings"`
			TotalBookings int              `json:"totalBookings"`
			TotalRevenue  float64          `json:"totalRevenue"`
		} `json:"dashboardData"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if got.DashboardData.TotalBookings != 2 {
		t.Errorf("totalBookings = %d, want 2", got.DashboardData.TotalBookings)
	}
	if got.DashboardData.TotalRevenue != 450 {
		t.Errorf("totalRevenue = %v, want 450", got.DashboardData.TotalRevenue)
	}
}

func TestHotelListHandler_NoHotel(t *testing.T) {
	h := newHandler(&fakeBookingStore{}, &fakeRoomStore{}, &fakeHotelStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/hotel", nil)
	req = testutil.WithUser(req, testutil.OwnerUser())

	rec := testutil.NewRecorder()
	h.HotelListHandler(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusNotFound)
}
