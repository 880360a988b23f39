package api

import (
	"context"
	"net/http"
	"testing"
)

func TestGetNotifications(t *testing.T) {
	pointClientAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/notifications/u1" {
			t.Errorf("Snapshot hit %s, want /api/notifications/u1", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"3","message":"Carol commented on your post","createdAt":"2026-08-29T12:00:00Z","read":false},
			{"id":"2","message":"Bob followed you","createdAt":"2026-08-28T09:30:00Z","read":true}
		]`))
	}))

	items, err := GetNotifications(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetNotifications failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(items))
	}
	if items[0].ID != "3" || items[0].Read {
		t.Errorf("Server ordering not preserved: %+v", items[0])
	}
	if items[1].ID != "2" || !items[1].Read {
		t.Errorf("Read flag not decoded: %+v", items[1])
	}
	if items[0].CreatedAt.IsZero() {
		t.Error("Timestamps should be decoded")
	}
}

func TestGetNotifications_ServerError(t *testing.T) {
	pointClientAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	if _, err := GetNotifications(context.Background(), "u1"); err == nil {
		t.Error("Server error should surface as an error")
	}
}

func TestMarkNotificationRead(t *testing.T) {
	var method, path string
	pointClientAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
	}))

	if err := MarkNotificationRead(context.Background(), "n42"); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	if method != http.MethodPost || path != "/api/notifications/read/n42" {
		t.Errorf("Confirm sent %s %s, want POST /api/notifications/read/n42", method, path)
	}
}

func TestMarkNotificationRead_Failure(t *testing.T) {
	pointClientAt(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"not_found","message":"no such notification"}`))
	}))

	err := MarkNotificationRead(context.Background(), "nope")
	if err == nil {
		t.Fatal("Missing notification should error")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected a 404 APIError, got %v", err)
	}
}
