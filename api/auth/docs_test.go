package auth_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/sessiond/api/auth"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocIsRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(auth.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	for _, path := range []string{"/auth/register", "/auth/login", "/auth/refresh", "/auth/refresh/logout", "/auth/me", "/livez", "/readyz"} {
		require.Contains(t, parsed.Paths, path)
	}
}
