package webhooks

import (
	"github.com/go-chi/chi/v5"
)

// Mount registers the provider webhook endpoints on r. The paths match
// the URLs configured in the provider dashboards (/api/stripe and
// /api/clerk when mounted under /api). Authentication is the HMAC
// signature each provider sends, so no bearer-token middleware applies.
func Mount(r chi.Router, h *Handler) {
	r.Post("/stripe", h.StripeHandler)
	r.Post("/clerk", h.ClerkHandler)
}
