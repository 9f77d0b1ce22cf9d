package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with plus", "user+tag@example.com", false},
		{"valid subdomain", "a@mail.example.co.uk", false},
		{"empty", "", true},
		{"no at sign", "userexample.com", true},
		{"no domain dot", "user@localhost", true},
		{"spaces", "user name@example.com", true},
		{"double at", "user@@example.com", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid password", "correcthorse", false},
		{"exactly min length", "12345678", false},
		{"empty", "", true},
		{"too short", "short12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName(""))
	assert.NoError(t, ValidateName("Jane Writer"))
	assert.Error(t, ValidateName(strings.Repeat("n", MaxNameLen+1)))
}
