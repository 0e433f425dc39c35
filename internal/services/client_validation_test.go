package services

import (
	"reflect"
	"testing"

	"clients_backend/internal/models"
)

func TestValidateClient(t *testing.T) {
	tests := []struct {
		name   string
		client models.Client
		want   []string
	}{
		{
			name:   "valid",
			client: models.Client{Name: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
			want:   nil,
		},
		{
			name:   "all missing",
			client: models.Client{},
			want: []string{
				"field 'name' must not be empty",
				"field 'last_name' must not be empty",
				"field 'email' must not be empty",
			},
		},
		{
			name:   "blank strings count as missing",
			client: models.Client{Name: "   ", LastName: "\t", Email: "ada@example.com"},
			want: []string{
				"field 'name' must not be empty",
				"field 'last_name' must not be empty",
			},
		},
		{
			name:   "malformed email",
			client: models.Client{Name: "Ada", LastName: "Lovelace", Email: "not-an-email"},
			want:   []string{"field 'email' must be a well-formed email address"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.client
			var got []string
			for _, fe := range ValidateClient(&c) {
				got = append(got, fe.String())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateClient() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateClientTrims(t *testing.T) {
	c := models.Client{Name: "  Ada ", LastName: " Lovelace", Email: " ada@example.com "}
	if errs := ValidateClient(&c); len(errs) != 0 {
		t.Fatalf("ValidateClient() = %v", errs)
	}
	if c.Name != "Ada" || c.LastName != "Lovelace" || c.Email != "ada@example.com" {
		t.Errorf("fields not trimmed: %+v", c)
	}
}
