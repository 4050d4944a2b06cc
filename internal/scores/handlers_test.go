package scores

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/bugstroids/internal/response"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(NewMemoryStore(), quiet), quiet)
}

func TestHandlerSubmitAndList(t *testing.T) {
	h := newTestHandler()

	post := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(`{"playerName":" Ann ","score":42.7}`))
	post.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, post)

	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d: %s", w.Code, w.Body)
	}
	var stored Entry
	if err := json.NewDecoder(w.Body).Decode(&stored); err != nil {
		t.Fatal(err)
	}
	if stored.PlayerName != "Ann" || stored.Score != 42 {
		t.Errorf("stored %+v", stored)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, get)

	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var raw []map[string]any
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}
	if len(raw) != 1 || raw[0]["playerName"] != "Ann" || raw[0]["score"] != float64(42) {
		t.Errorf("listed %v", raw)
	}
	for _, key := range []string{"id", "timestamp"} {
		if _, ok := raw[0][key]; !ok {
			t.Errorf("missing %q field", key)
		}
	}
}

func TestHandlerRejectsBadSubmissions(t *testing.T) {
	bodies := map[string]string{
		"empty name":     `{"playerName":"","score":10}`,
		"blank name":     `{"playerName":"   ","score":10}`,
		"missing score":  `{"playerName":"Ann"}`,
		"string score":   `{"playerName":"Ann","score":"10"}`,
		"numeric name":   `{"playerName":5,"score":10}`,
		"malformed json": `{"playerName":`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			h := newTestHandler()
			r := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}

			list := httptest.NewRecorder()
			h.ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/scores", nil))
			if strings.TrimSpace(list.Body.String()) != "[]" {
				t.Errorf("rejected submission was stored: %s", list.Body)
			}
		})
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	h := newTestHandler()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/scores", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
	if w.Header().Get("Allow") != "GET, POST" {
		t.Errorf("Allow = %q", w.Header().Get("Allow"))
	}
}

func TestHandlerMsgpack(t *testing.T) {
	h := newTestHandler()

	body, err := msgpack.Marshal(map[string]any{"playerName": "Kim", "score": 77.0})
	if err != nil {
		t.Fatal(err)
	}
	post := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(string(body)))
	post.Header.Set("Content-Type", response.ContentTypeMsgpack)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, post)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status = %d", w.Code)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/scores", nil)
	get.Header.Set("Accept", response.ContentTypeMsgpack)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, get)

	var entries []Entry
	if err := msgpack.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].PlayerName != "Kim" || entries[0].Score != 77 {
		t.Errorf("entries = %+v", entries)
	}
}
