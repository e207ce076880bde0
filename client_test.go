package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClientSurfacesErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"equipment not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := newServiceClient(srv.URL)
	_, err := c.UpdatePosition(context.Background(), "ghost", 1, 2, false)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "equipment not found") {
		t.Errorf("error = %q, want the server's message included", err)
	}
}

func TestClientFallsBackToStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newServiceClient(srv.URL)
	err := c.DeleteConnection(context.Background(), "c1")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Errorf("error = %v, want the status code when no body is present", err)
	}
}

func TestListEquipmentNormalizesAtBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"a","type":"warp-drive","status":"","x":5,"y":5}]`))
	}))
	defer srv.Close()

	c := newServiceClient(srv.URL)
	list, err := c.ListEquipment(context.Background(), "")
	if err != nil {
		t.Fatalf("ListEquipment: %v", err)
	}
	if list[0].Type != TypeUnknown || list[0].Status != StatusUnknown {
		t.Errorf("got type=%q status=%q, want both coerced to unknown", list[0].Type, list[0].Status)
	}
}

func TestListEquipmentSendsAreaFilter(t *testing.T) {
	var gotArea string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotArea = r.URL.Query().Get("area")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newServiceClient(srv.URL)
	if _, err := c.ListEquipment(context.Background(), "assembly-2"); err != nil {
		t.Fatalf("ListEquipment: %v", err)
	}
	if gotArea != "assembly-2" {
		t.Errorf("area = %q, want assembly-2", gotArea)
	}
}
