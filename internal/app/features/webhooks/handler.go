// Package webhooks receives callbacks from the payment and identity
// providers.
//
// Endpoints (mounted under /api):
//   - POST /api/stripe - payment events; confirms bookings on success
//   - POST /api/clerk  - identity events; syncs user profiles
//
// Both endpoints verify an HMAC signature before touching the body and
// always answer 200 for events they do not care about, so the provider
// stops retrying.
package webhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/quickstay/quickstay-api/internal/app/system/jsonutil"
)

// maxBodyBytes bounds webhook payloads; providers send small events.
const maxBodyBytes = 1 << 16

// signatureTolerance rejects replayed events with old timestamps.
const signatureTolerance = 5 * time.Minute

// BookingStore confirms bookings after a successful payment.
type BookingStore interface {
	MarkPaidByReference(ctx context.Context, reference string) error
}

// UserStore syncs profiles from identity provider events.
type UserStore interface {
	UpsertProfile(ctx context.Context, clerkID, email, username, image string) error
	DeleteByClerkID(ctx context.Context, clerkID string) error
}

// Handler handles provider webhook requests.
type Handler struct {
	bookings     BookingStore
	users        UserStore
	stripeSecret string
	clerkSecret  string
	logger       *zap.Logger
	now          func() time.Time
}

// NewHandler creates a new webhooks Handler.
func NewHandler(bookings BookingStore, users UserStore, stripeSecret, clerkSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		bookings:     bookings,
		users:        users,
		stripeSecret: stripeSecret,
		clerkSecret:  clerkSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// StripeHandler handles POST /api/webhooks/stripe.
//
// The Stripe-Signature header carries "t=<unix>,v1=<hex hmac>" where
// the MAC is HMAC-SHA256 of "<t>.<body>" under the endpoint secret.
func (h *Handler) StripeHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := h.verifyStripeSignature(r.Header.Get("Stripe-Signature"), body); err != nil {
		h.logger.Warn("stripe webhook rejected", zap.Error(err))
		jsonutil.Error(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			Object struct {
				Metadata map[string]string `json:"metadata"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if event.Type != "payment_intent.succeeded" && event.Type != "checkout.session.completed" {
		jsonutil.JSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	reference := event.Data.Object.Metadata["bookingId"]
	if reference == "" {
		h.logger.Warn("stripe event missing booking reference", zap.String("type", event.Type))
		jsonutil.JSON(w, http.StatusOK, map[string]bool{"received": true})
		return
	}

	if err := h.bookings.MarkPaidByReference(r.Context(), reference); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.logger.Warn("stripe event for unknown booking", zap.String("reference", reference))
			jsonutil.JSON(w, http.StatusOK, map[string]bool{"received": true})
			return
		}
		h.logger.Error("booking payment confirm failed", zap.String("reference", reference), zap.Error(err))
		jsonutil.Error(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.logger.Info("booking confirmed via stripe", zap.String("reference", reference))
	jsonutil.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) verifyStripeSignature(header string, body []byte) error {
	if h.stripeSecret == "" {
		return errors.New("stripe webhook secret not configured")
	}
	var ts string
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts = v
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == "" || len(sigs) == 0 {
		return errors.New("malformed signature header")
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("malformed signature timestamp")
	}
	if d := h.now().Sub(time.Unix(unix, 0)); d > signatureTolerance || d < -signatureTolerance {
		return errors.New("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(h.stripeSecret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	want := mac.Sum(nil)

	for _, s := range sigs {
		got, err := hex.DecodeString(s)
		if err == nil && hmac.Equal(want, got) {
			return nil
		}
	}
	return errors.New("no matching signature")
}

// ClerkHandler handles POST /api/webhooks/clerk.
//
// Clerk signs events svix-style: HMAC-SHA256 of "<id>.<timestamp>.<body>"
// under the base64 part of the whsec_ secret, sent base64-encoded in the
// svix-signature header as "v1,<sig>" entries.
func (h *Handler) ClerkHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := h.verifyClerkSignature(r.Header, body); err != nil {
		h.logger.Warn("clerk webhook rejected", zap.Error(err))
		jsonutil.Error(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			ID             string `json:"id"`
			Username       string `json:"username"`
			ImageURL       string `json:"image_url"`
			FirstName      string `json:"first_name"`
			LastName       string `json:"last_name"`
			EmailAddresses []struct {
				EmailAddress string `json:"email_address"`
			} `json:"email_addresses"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if event.Data.ID == "" {
		jsonutil.Error(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	switch event.Type {
	case "user.created", "user.updated":
		email := ""
		if len(event.Data.EmailAddresses) > 0 {
			email = event.Data.EmailAddresses[0].EmailAddress
		}
		username := event.Data.Username
		if username == "" {
			username = strings.TrimSpace(event.Data.FirstName + " " + event.Data.LastName)
		}
		if err := h.users.UpsertProfile(r.Context(), event.Data.ID, email, username, event.Data.ImageURL); err != nil {
			h.logger.Error("user profile sync failed", zap.String("clerk_id", event.Data.ID), zap.Error(err))
			jsonutil.Error(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	case "user.deleted":
		if err := h.users.DeleteByClerkID(r.Context(), event.Data.ID); err != nil {
			h.logger.Error("user delete sync failed", zap.String("clerk_id", event.Data.ID), zap.Error(err))
			jsonutil.Error(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	default:
		// Ack unhandled event types.
	}

	jsonutil.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) verifyClerkSignature(hdr http.Header, body []byte) error {
	if h.clerkSecret == "" {
		return errors.New("clerk webhook secret not configured")
	}
	id := hdr.Get("svix-id")
	ts := hdr.Get("svix-timestamp")
	sigHeader := hdr.Get("svix-signature")
	if id == "" || ts == "" || sigHeader == "" {
		return errors.New("missing svix headers")
	}

	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return errors.New("malformed svix timestamp")
	}
	if d := h.now().Sub(time.Unix(unix, 0)); d > signatureTolerance || d < -signatureTolerance {
		return errors.New("svix timestamp outside tolerance")
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h.clerkSecret, "whsec_"))
	if err != nil {
		return errors.New("malformed webhook secret")
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(id))
	mac.Write([]byte("."))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(body)
	want := mac.Sum(nil)

	for _, entry := range strings.Split(sigHeader, " ") {
		_, sig, ok := strings.Cut(entry, ",")
		if !ok {
			continue
		}
		got, err := base64.StdEncoding.DecodeString(sig)
		if err == nil && hmac.Equal(want, got) {
			return nil
		}
	}
	return errors.New("no matching signature")
}
