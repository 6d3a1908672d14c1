package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserUpdatesChannel(t *testing.T) {
	userID := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	got := UserUpdatesChannel(userID)
	want := "user_updates:6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if got != want {
		t.Errorf("UserUpdatesChannel = %q, want %q", got, want)
	}
}
