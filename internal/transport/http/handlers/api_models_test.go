package handlers

import (
	"encoding/json"
	"testing"
)

func TestRefFieldDistinguishesAbsentAndNull(t *testing.T) {
	var req UpdateUserRequest
	if err := json.Unmarshal([]byte(`{"username":"renamed","department":null}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if req.College.Provided() {
		t.Fatal("college was absent but reported as provided")
	}

	if !req.Department.Provided() {
		t.Fatal("department null was not reported as provided")
	}
	id, err := req.Department.Value()
	if err != nil {
		t.Fatalf("department value: %v", err)
	}
	if id != nil {
		t.Fatalf("expected nil id for explicit null, got %q", *id)
	}
}

func TestRefFieldCarriesID(t *testing.T) {
	var req UpdateUserRequest
	if err := json.Unmarshal([]byte(`{"college":"col-42"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	id, err := req.College.Value()
	if err != nil {
		t.Fatalf("college value: %v", err)
	}
	if id == nil || *id != "col-42" {
		t.Fatalf("expected col-42, got %v", id)
	}
}

func TestRefFieldRejectsNonString(t *testing.T) {
	var req UpdateUserRequest
	if err := json.Unmarshal([]byte(`{"college":7}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, err := req.College.Value(); err == nil {
		t.Fatal("expected an error for a numeric id")
	}
}

func TestParseAPIDate(t *testing.T) {
	raw := "2023-04-15"
	parsed, err := parseAPIDate(&raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed == nil || parsed.Year() != 2023 || int(parsed.Month()) != 4 || parsed.Day() != 15 {
		t.Fatalf("unexpected date %v", parsed)
	}

	if got, err := parseAPIDate(nil); err != nil || got != nil {
		t.Fatalf("nil input should round-trip to nil, got %v err %v", got, err)
	}

	bad := "15/04/2023"
	if _, err := parseAPIDate(&bad); err == nil {
		t.Fatal("expected an error for a non ISO date")
	}
}
