package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cargolink/cargo-backend/internal/models"
)

func validCreateBookingRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		CargoDetails: models.Cargo{
			Description: "Machine parts",
			WeightKg:    1200,
			Type:        models.CargoTypeGeneral,
		},
		Route: models.Route{
			Origin:      "Rotterdam",
			Destination: "Singapore",
		},
		Price: 2500,
	}
}

func TestBookingHandler_Create(t *testing.T) {
	ownerID := primitive.NewObjectID()
	claims := &models.Claims{UserID: ownerID.Hex(), Email: "owner@example.com", Role: models.RoleUser}

	t.Run("creates a pending booking owned by the caller", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		var inserted models.Booking
		bookings.On("InsertBooking", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
			inserted = b
			return true
		})).Return(nil)

		req := jsonRequest(t, "POST", "/api/bookings", validCreateBookingRequest(), claims)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, models.BookingStatusPending, inserted.Status)
		assert.Equal(t, models.PaymentStatusPending, inserted.PaymentStatus)
		assert.Equal(t, ownerID, inserted.UserID)
		assert.True(t, strings.HasPrefix(inserted.TrackingCode, "AWB-"))
		assert.Equal(t, 2500.0, inserted.Price)
	})

	t.Run("retries once on tracking code collision", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		bookings.On("InsertBooking", mock.Anything, mock.Anything).Return(dup).Once()
		bookings.On("InsertBooking", mock.Anything, mock.Anything).Return(nil).Once()

		req := jsonRequest(t, "POST", "/api/bookings", validCreateBookingRequest(), claims)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		bookings.AssertNumberOfCalls(t, "InsertBooking", 2)
	})

	t.Run("empty cargo type defaults to general", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		var inserted models.Booking
		bookings.On("InsertBooking", mock.Anything, mock.MatchedBy(func(b models.Booking) bool {
			inserted = b
			return true
		})).Return(nil)

		body := validCreateBookingRequest()
		body.CargoDetails.Type = ""
		req := jsonRequest(t, "POST", "/api/bookings", body, claims)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, models.CargoTypeGeneral, inserted.CargoDetails.Type)
	})

	t.Run("invalid cargo type is rejected", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		body := validCreateBookingRequest()
		body.CargoDetails.Type = "liquid"
		req := jsonRequest(t, "POST", "/api/bookings", body, claims)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		bookings.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
	})

	t.Run("missing route is rejected", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		body := validCreateBookingRequest()
		body.Route.Destination = ""
		req := jsonRequest(t, "POST", "/api/bookings", body, claims)
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingHandler_List(t *testing.T) {
	t.Run("admin sees every booking", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		bookings.On("FindBookings", mock.Anything, bson.M{}).Return([]models.Booking{}, nil)

		claims := &models.Claims{UserID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin}
		req := jsonRequest(t, "GET", "/api/bookings", nil, claims)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		bookings.AssertCalled(t, "FindBookings", mock.Anything, bson.M{})
	})

	t.Run("non-admin sees only own bookings", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		handler := NewBookingHandler(bookings, testConfig())

		ownerID := primitive.NewObjectID()
		bookings.On("FindBookings", mock.Anything, bson.M{"user_id": ownerID}).Return([]models.Booking{}, nil)

		claims := &models.Claims{UserID: ownerID.Hex(), Role: models.RoleUser}
		req := jsonRequest(t, "GET", "/api/bookings", nil, claims)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		bookings.AssertCalled(t, "FindBookings", mock.Anything, bson.M{"user_id": ownerID})
	})
}

func TestBookingHandler_GetByID(t *testing.T) {
	ownerID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()
	booking := &models.Booking{
		ID:     bookingID,
		UserID: ownerID,
		Status: models.BookingStatusPending,
	}

	get := func(t *testing.T, bookings *MockBookingCollection, claims *models.Claims) *httptest.ResponseRecorder {
		handler := NewBookingHandler(bookings, testConfig())
		req := jsonRequest(t, "GET", "/api/bookings/"+bookingID.Hex(), nil, claims)
		req.SetPathValue("id", bookingID.Hex())
		w := httptest.NewRecorder()
		handler.GetByID(w, req)
		return w
	}

	t.Run("owner can read", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(booking, nil)

		w := get(t, bookings, &models.Claims{UserID: ownerID.Hex(), Role: models.RoleUser})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin can read regardless of ownership", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(booking, nil)

		w := get(t, bookings, &models.Claims{UserID: primitive.NewObjectID().Hex(), Role: models.RoleAdmin})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(booking, nil)

		w := get(t, bookings, &models.Claims{UserID: primitive.NewObjectID().Hex(), Role: models.RoleUser})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing booking yields 404", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(nil, mongo.ErrNoDocuments)

		w := get(t, bookings, &models.Claims{UserID: ownerID.Hex(), Role: models.RoleUser})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBookingHandler_UpdateStatus(t *testing.T) {
	bookingID := primitive.NewObjectID()
	ownerID := primitive.NewObjectID()

	update := func(t *testing.T, bookings *MockBookingCollection, claims *models.Claims, body models.UpdateBookingStatusRequest) *httptest.ResponseRecorder {
		handler := NewBookingHandler(bookings, testConfig())
		req := jsonRequest(t, "PUT", "/api/bookings/"+bookingID.Hex()+"/status", body, claims)
		req.SetPathValue("id", bookingID.Hex())
		w := httptest.NewRecorder()
		handler.UpdateStatus(w, req)
		return w
	}

	t.Run("updates status and payment status", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		booking := &models.Booking{ID: bookingID, UserID: ownerID, Status: models.BookingStatusPending, PaymentStatus: models.PaymentStatusPending}
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(booking, nil)

		var updated models.Booking
		bookings.On("UpdateBooking", mock.Anything, bookingID.Hex(), mock.MatchedBy(func(b models.Booking) bool {
			updated = b
			return true
		})).Return(nil)

		claims := &models.Claims{UserID: ownerID.Hex(), Role: models.RoleUser}
		w := update(t, bookings, claims, models.UpdateBookingStatusRequest{
			Status:        models.BookingStatusConfirmed,
			PaymentStatus: models.PaymentStatusPaid,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.BookingStatusConfirmed, updated.Status)
		assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	})

	t.Run("any authenticated caller may update any booking", func(t *testing.T) {
		bookings := new(MockBookingCollection)
		booking := &models.Booking{ID: bookingID, UserID: ownerID, Status: models.BookingStatusPending}
		bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(booking, nil)
		bookings.On("UpdateBooking", mock.Anything, bookingID.Hex(), mock.Anything).Return(nil)

		stranger := &models.Claims{UserID: primitive.NewObjectID().Hex(), Role: models.RoleUser}
		w := update(t, bookings, stranger, models.UpdateBookingStatusRequest{
			Status: models.BookingStatusCancelled,
		})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		bookings := new(MockBookingCollection)

		claims := &models.Claims{UserID: ownerID.Hex(), Role: models.RoleAdmin}
		w := update(t, bookings, claims, models.UpdateBookingStatusRequest{
			Status: "shipped",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		bookings.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing booking yields 404 regardless of role", func(t *testing.T) {
		for _, role := range []models.Role{models.RoleAdmin, models.RoleUser, models.RoleDriver} {
			bookings := new(MockBookingCollection)
			bookings.On("FindBookingByID", mock.Anything, bookingID.Hex()).Return(nil, mongo.ErrNoDocuments)

			claims := &models.Claims{UserID: primitive.NewObjectID().Hex(), Role: role}
			w := update(t, bookings, claims, models.UpdateBookingStatusRequest{
				Status: models.BookingStatusConfirmed,
			})

			assert.Equal(t, http.StatusNotFound, w.Code, string(role))
		}
	})
}
