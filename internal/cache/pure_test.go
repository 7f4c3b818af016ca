package cache

import (
	"encoding/json"
	"testing"
)

func TestUserKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{"uuid", "9f1c2d3e-0000-4000-8000-000000000001", "users:id:9f1c2d3e-0000-4000-8000-000000000001"},
		{"short", "42", "users:id:42"},
		{"empty", "", "users:id:"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := UserKey(tt.id); got != tt.expected {
				t.Errorf("UserKey(%q) = %q, want %q", tt.id, got, tt.expected)
			}
		})
	}
}

func TestIdempotencyKey(t *testing.T) {
	t.Parallel()

	if got := IdempotencyKey("k1"); got != "idem:k1" {
		t.Errorf("IdempotencyKey(\"k1\") = %q, want \"idem:k1\"", got)
	}
}

func TestStoredResponse_RoundTrip(t *testing.T) {
	t.Parallel()

	original := &StoredResponse{
		Status: 201,
		Body:   json.RawMessage(`{"success":true,"data":{"id":"abc"}}`),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded StoredResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Status != 201 {
		t.Errorf("expected status 201, got %d", decoded.Status)
	}

	if string(decoded.Body) != string(original.Body) {
		t.Errorf("body changed across round trip: %s", decoded.Body)
	}
}
