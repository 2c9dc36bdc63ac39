package rooms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/cache"
	"github.com/quickstay/quickstay-api/internal/domain/models"
	"github.com/quickstay/quickstay-api/internal/testutil"
)

type fakeRoomStore struct {
	rooms     []models.Room
	created   []models.Room
	toggled   []primitive.ObjectID
	listCalls int
}

func (f *fakeRoomStore) Create(ctx context.Context, room models.Room) (models.Room, error) {
	room.ID = primitive.NewObjectID()
	f.created = append(f.created, room)
	return room, nil
}

func (f *fakeRoomStore) ListAvailable(ctx context.Context) ([]models.Room, error) {
	f.listCalls++
	return f.rooms, nil
}

func (f *fakeRoomStore) ListByHotel(ctx context.Context, hotelID primitive.ObjectID) ([]models.Room, error) {
	return f.rooms, nil
}

func (f *fakeRoomStore) ToggleAvailability(ctx context.Context, roomID, hotelID primitive.ObjectID) error {
	for _, r := range f.rooms {
		if r.ID == roomID && r.HotelID == hotelID {
			f.toggled = append(f.toggled, roomID)
			return nil
		}
	}
	return mongo.ErrNoDocuments
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

func ownerRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return testutil.WithUser(req, testutil.OwnerUser())
}

func TestCreateHandler_Success(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	rs := &fakeRoomStore{}
	h := NewHandler(rs, &fakeHotelStore{hotel: hotel}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.CreateHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms",
		`{"roomType":"Double Bed","pricePerNight":120,"amenities":[" Free WiFi ",""],"images":["a.jpg"]}`,
	))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Room Created Successfully")

	if len(rs.created) != 1 {
		t.Fatalf("created rooms = %d, want 1", len(rs.created))
	}
	room := rs.created[0]
	if room.HotelID != hotel.ID {
		t.Error("room should belong to the owner's hotel")
	}
	if !room.IsAvailable {
		t.Error("new room should start available")
	}
	if len(room.Amenities) != 1 || room.Amenities[0] != "Free WiFi" {
		t.Errorf("amenities = %v, want sanitized [Free WiFi]", room.Amenities)
	}
}

func TestCreateHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{`},
		{"missing room type", `{"pricePerNight":120}`},
		{"zero price", `{"roomType":"Double Bed","pricePerNight":0}`},
		{"negative price", `{"roomType":"Double Bed","pricePerNight":-5}`},
	}

	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := &fakeRoomStore{}
			h := NewHandler(rs, &fakeHotelStore{hotel: hotel}, nil, zap.NewNop(), true)

			rec := testutil.NewRecorder()
			h.CreateHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms", tt.body))

			rec.AssertStatus(t, http.StatusBadRequest)
			if len(rs.created) != 0 {
				t.Errorf("created rooms = %d, want 0", len(rs.created))
			}
		})
	}
}

func TestCreateHandler_NoHotel(t *testing.T) {
	h := NewHandler(&fakeRoomStore{}, &fakeHotelStore{}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.CreateHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms",
		`{"roomType":"Double Bed","pricePerNight":120}`,
	))

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "No hotel registered")
}

func TestListHandler(t *testing.T) {
	rs := &fakeRoomStore{rooms: []models.Room{
		{ID: primitive.NewObjectID(), RoomType: models.RoomTypeDouble, IsAvailable: true},
	}}
	h := NewHandler(rs, &fakeHotelStore{}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.ListHandler(rec.ResponseRecorder, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	rec.AssertStatus(t, http.StatusOK)

	var got struct {
		Success bool          `json:"success"`
		Count   int           `json:"count"`
		Data    []models.Room `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !got.Success || got.Count != 1 {
		t.Errorf("envelope = success:%v count:%d, want success:true count:1", got.Success, got.Count)
	}
}

func TestToggleHandler(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	room := models.Room{ID: primitive.NewObjectID(), HotelID: hotel.ID}
	rs := &fakeRoomStore{rooms: []models.Room{room}}
	h := NewHandler(rs, &fakeHotelStore{hotel: hotel}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.ToggleHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms/toggle-availability",
		`{"roomId":"`+room.ID.Hex()+`"}`,
	))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Room availability Updated")
	if len(rs.toggled) != 1 {
		t.Errorf("toggled = %d, want 1", len(rs.toggled))
	}
}

func TestToggleHandler_BadID(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	h := NewHandler(&fakeRoomStore{}, &fakeHotelStore{hotel: hotel}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.ToggleHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms/toggle-availability",
		`{"roomId":"not-an-id"}`,
	))

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestToggleHandler_OtherOwnersRoom(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	foreign := models.Room{ID: primitive.NewObjectID(), HotelID: primitive.NewObjectID()}
	rs := &fakeRoomStore{rooms: []models.Room{foreign}}
	h := NewHandler(rs, &fakeHotelStore{hotel: hotel}, nil, zap.NewNop(), true)

	rec := testutil.NewRecorder()
	h.ToggleHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms/toggle-availability",
		`{"roomId":"`+foreign.ID.Hex()+`"}`,
	))

	rec.AssertStatus(t, http.StatusNotFound)
	if len(rs.toggled) != 0 {
		t.Errorf("toggled = %d, want 0", len(rs.toggled))
	}
}

func newTestCache(t *testing.T) *cache.Cache {
	srv := miniredis.RunT(t)
	c := cache.New(srv.Addr(), "", 0, time.Minute)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestListHandler_ServesFromCache(t *testing.T) {
	rs := &fakeRoomStore{rooms: []models.Room{
		{ID: primitive.NewObjectID(), RoomType: models.RoomTypeSingle, IsAvailable: true},
	}}
	h := NewHandler(rs, &fakeHotelStore{}, newTestCache(t), zap.NewNop(), true)

	for i := 0; i < 2; i++ {
		rec := testutil.NewRecorder()
		h.ListHandler(rec.ResponseRecorder, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
		rec.AssertStatus(t, http.StatusOK)
		rec.AssertContains(t, `"count":1`)
	}

	if rs.listCalls != 1 {
		t.Errorf("store list calls = %d, want 1 (second response served from cache)", rs.listCalls)
	}
}

func TestCreateHandler_InvalidatesListCache(t *testing.T) {
	hotel := &models.Hotel{ID: primitive.NewObjectID()}
	rs := &fakeRoomStore{}
	h := NewHandler(rs, &fakeHotelStore{hotel: hotel}, newTestCache(t), zap.NewNop(), true)

	// Warm the cache.
	rec := testutil.NewRecorder()
	h.ListHandler(rec.ResponseRecorder, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	h.CreateHandler(rec.ResponseRecorder, ownerRequest(http.MethodPost, "/api/rooms",
		`{"roomType":"Double Bed","pricePerNight":120}`,
	))
	rec.AssertStatus(t, http.StatusOK)

	rec = testutil.NewRecorder()
	h.ListHandler(rec.ResponseRecorder, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
	rec.AssertStatus(t, http.StatusOK)

	if rs.listCalls != 2 {
		t.Errorf("store list calls = %d, want 2 (create must drop the cached list)", rs.listCalls)
	}
}
