package schemas

import (
	"encoding/json"
	"testing"
)

func TestUserCreate_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		u := UserCreate{Email: "a@example.com", Password: "password123"}
		if err := u.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("bad_email", func(t *testing.T) {
		u := UserCreate{Email: "not-an-email", Password: "password123"}
		if _, ok := validationFields(t, u.Validate())["email"]; !ok {
			t.Error("expected email error")
		}
	})

	t.Run("short_password", func(t *testing.T) {
		u := UserCreate{Email: "a@example.com", Password: "short"}
		if _, ok := validationFields(t, u.Validate())["password"]; !ok {
			t.Error("expected password error")
		}
	})
}

func TestUserUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{"clear_full_name", `{"full_name":null}`, ""},
		{"new_email", `{"email":"b@example.com"}`, ""},
		{"null_email", `{"email":null}`, "email"},
		{"null_password", `{"password":null}`, "password"},
		{"bad_email", `{"email":"nope"}`, "email"},
		{"empty_email", `{"email":""}`, "email"},
		{"empty_password", `{"password":""}`, "password"},
		{"short_password", `{"password":"short"}`, "password"},
		{"empty_full_name", `{"full_name":""}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u UserUpdate
			if err := json.Unmarshal([]byte(tt.payload), &u); err != nil {
				t.Fatalf("decode: %v", err)
			}
			err := u.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if _, ok := validationFields(t, err)[tt.field]; !ok {
				t.Errorf("expected error on %s", tt.field)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Errorf("got %q", got)
	}
}
