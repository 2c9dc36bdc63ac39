package dbstate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fixedState is a StateReader pinned to one state.
type fixedState State

func (s fixedState) State() State { return State(s) }

func TestRequire_PassesWhenConnected(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	h := Require(fixedState(Connected))(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hotels", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestRequire_RejectsWhenNotConnected(t *testing.T) {
	for _, st := range []State{Disconnected, Connecting, Errored} {
		t.Run(st.String(), func(t *testing.T) {
			calls := 0
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
			})

			h := Require(fixedState(st))(next)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hotels", nil))

			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
			}
			if calls != 0 {
				t.Errorf("handler calls = %d, want 0", calls)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body["error"] != "Database not connected" {
				t.Errorf("error = %q, want %q", body["error"], "Database not connected")
			}
			if body["connectionState"] != st.String() {
				t.Errorf("connectionState = %q, want %q", body["connectionState"], st.String())
			}
		})
	}
}
