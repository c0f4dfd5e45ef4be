package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwaggerDocIsValidJSON(t *testing.T) {
	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	assert.Equal(t, "/api", doc.BasePath)
	for _, path := range []string{
		"/comment-likes/toggle",
		"/feature-flags",
		"/feed/following/{userId}",
		"/likes/toggle",
		"/users/{username}/follow",
		"/webhooks/notification-created",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
