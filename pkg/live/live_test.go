package live_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"

	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/live"
	"github.com/goliatone/go-signup/pkg/registration"
)

type reply struct {
	Type    string            `json:"type"`
	Values  map[string]string `json:"values"`
	Errors  map[string]string `json:"errors"`
	Status  string            `json:"status"`
	Message string            `json:"message"`
}

type recordingObserver struct {
	mu       sync.Mutex
	statuses []form.Status
	resets   int
}

func (o *recordingObserver) Submitted(_ context.Context, snap form.Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, snap.Status)
}

func (o *recordingObserver) Reset(context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resets++
}

func TestHandler_SessionFlow(t *testing.T) {
	observer := &recordingObserver{}
	conn := dial(t, live.NewHandler(live.WithObserver(observer)))

	got := exchange(t, conn, live.ClientMessage{Type: live.TypeSubmit})
	if got.Status != "warning" || len(got.Errors) != 4 {
		t.Fatalf("expected warning with four errors, got %+v", got)
	}

	// a change leaves errors and status untouched until the next submit
	got = exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "firstName", Value: "Ada"})
	if got.Status != "warning" || got.Errors["firstName"] != registration.MsgFirstNameRequired {
		t.Fatalf("change must not revalidate, got %+v", got)
	}
	if got.Values["firstName"] != "Ada" {
		t.Fatalf("expected value echo, got %+v", got.Values)
	}

	for field, value := range map[string]string{
		"lastName": "Lovelace",
		"email":    "test@gmail.com",
		"password": "Abcdef1!",
	} {
		exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: field, Value: value})
	}
	got = exchange(t, conn, live.ClientMessage{Type: live.TypeSubmit})
	want := map[string]string{"email": registration.MsgEmailRegistered}
	if diff := cmp.Diff(want, got.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if got.Status != "failure" {
		t.Fatalf("expected failure, got %s", got.Status)
	}
	if got.Values["password"] != "" {
		t.Fatalf("password must not be echoed, got %q", got.Values["password"])
	}

	exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "email", Value: "ada@gmail.com"})
	got = exchange(t, conn, live.ClientMessage{Type: live.TypeSubmit})
	if got.Status != "success" || len(got.Errors) != 0 {
		t.Fatalf("expected clean success, got %+v", got)
	}

	got = exchange(t, conn, live.ClientMessage{Type: live.TypeReset})
	if got.Status != "idle" || got.Values["firstName"] != "" {
		t.Fatalf("expected cleared idle form, got %+v", got)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	wantStatuses := []form.Status{form.StatusWarning, form.StatusFailure, form.StatusSuccess}
	if diff := cmp.Diff(wantStatuses, observer.statuses); diff != "" {
		t.Fatalf("observed statuses mismatch (-want +got):\n%s", diff)
	}
	if observer.resets != 1 {
		t.Fatalf("expected one reset, got %d", observer.resets)
	}
}

func TestHandler_ErrorsKeepConnectionOpen(t *testing.T) {
	conn := dial(t, live.NewHandler())

	got := exchange(t, conn, live.ClientMessage{Type: "explode"})
	if got.Type != live.TypeError || !strings.Contains(got.Message, "explode") {
		t.Fatalf("expected unknown type error, got %+v", got)
	}

	got = exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "nickname", Value: "x"})
	if got.Type != live.TypeError || !strings.Contains(got.Message, "unknown field") {
		t.Fatalf("expected unknown field error, got %+v", got)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	var decodeErr reply
	if err := conn.ReadJSON(&decodeErr); err != nil {
		t.Fatalf("read: %v", err)
	}
	if decodeErr.Type != live.TypeError {
		t.Fatalf("expected decode error, got %+v", decodeErr)
	}

	got = exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "email", Value: "ada@gmail.com"})
	if got.Type != live.TypeSnapshot || got.Status != "idle" {
		t.Fatalf("connection should still serve snapshots, got %+v", got)
	}
}

func TestHandler_ResetRequiresSuccess(t *testing.T) {
	observer := &recordingObserver{}
	conn := dial(t, live.NewHandler(live.WithObserver(observer)))

	got := exchange(t, conn, live.ClientMessage{Type: live.TypeReset})
	if got.Type != live.TypeError || !strings.Contains(got.Message, "status idle") {
		t.Fatalf("expected reset to be refused while idle, got %+v", got)
	}

	exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "firstName", Value: "Ada"})
	got = exchange(t, conn, live.ClientMessage{Type: live.TypeSubmit})
	if got.Status != "warning" {
		t.Fatalf("expected warning, got %+v", got)
	}

	got = exchange(t, conn, live.ClientMessage{Type: live.TypeReset})
	if got.Type != live.TypeError || !strings.Contains(got.Message, "status warning") {
		t.Fatalf("expected reset to be refused after warning, got %+v", got)
	}

	// the refused reset must not have touched values, errors or status
	got = exchange(t, conn, live.ClientMessage{Type: live.TypeChange, Field: "lastName", Value: "Lovelace"})
	if got.Status != "warning" || got.Values["firstName"] != "Ada" || got.Values["lastName"] != "Lovelace" {
		t.Fatalf("state changed by refused reset: %+v", got)
	}
	if got.Errors["email"] != registration.MsgEmailRequired {
		t.Fatalf("errors cleared by refused reset: %+v", got.Errors)
	}

	observer.mu.Lock()
	defer observer.mu.Unlock()
	if observer.resets != 0 {
		t.Fatalf("refused resets must not be observed, got %d", observer.resets)
	}
}

func TestHandler_ConnectionsAreIsolated(t *testing.T) {
	handler := live.NewHandler()
	first := dial(t, handler)
	second := dial(t, handler)

	exchange(t, first, live.ClientMessage{Type: live.TypeChange, Field: "firstName", Value: "Ada"})
	got := exchange(t, second, live.ClientMessage{Type: live.TypeSubmit})
	if got.Values["firstName"] != "" {
		t.Fatalf("state leaked between connections: %+v", got.Values)
	}
}

func dial(t *testing.T, handler *live.Handler) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, msg live.ClientMessage) reply {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got reply
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	return got
}
