package validation

import (
	"testing"

	"gymvy/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Username string `json:"username" validate:"required,username"`
	Platform string `json:"platform" validate:"omitempty,oneof=ios android web"`
	Content  string `json:"content" validate:"required,max=10"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantMsg string
	}{
		{"valid", sampleRequest{Username: "lift_bro", Content: "hi"}, ""},
		{"missing username", sampleRequest{Content: "hi"}, "username is required"},
		{"bad username", sampleRequest{Username: "no spaces!", Content: "hi"}, "username must be 3-30 letters, digits, dots or underscores"},
		{"bad platform", sampleRequest{Username: "abc", Platform: "palm", Content: "hi"}, "platform must be one of: ios android web"},
		{"too long", sampleRequest{Username: "abc", Content: "0123456789x"}, "content must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, models.IsCode(err, models.CodeValidation))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestUsername(t *testing.T) {
	assert.True(t, Username("gym.rat_99"))
	assert.False(t, Username("ab"))
	assert.False(t, Username("has space"))
}
