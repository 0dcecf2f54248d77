package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-ega/whatsapp-cloud-sdk/configx"
	"github.com/t-ega/whatsapp-cloud-sdk/whatsapp"
)

func TestServeCommandFlagSurface(t *testing.T) {
	serve := newServeCommand()

	for _, name := range []string{
		"access-token",
		"phone-number-id",
		"api-version",
		"verify-token",
		"port",
		"path",
		"echo",
	} {
		assert.NotNil(t, serve.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestResolvePrefersFlagOverConfig(t *testing.T) {
	cfg, err := configx.NewBuilder().
		WithDefaults(map[string]string{"CLOUD_API_ACCESS_TOKEN": "from-env"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "from-flag", resolve("from-flag", cfg, "CLOUD_API_ACCESS_TOKEN"))
	assert.Equal(t, "from-env", resolve("", cfg, "CLOUD_API_ACCESS_TOKEN"))
	assert.Equal(t, "", resolve("", cfg, "UNSET_KEY"))
}

func TestHandleMessageNilPayloads(t *testing.T) {
	assert.NotPanics(t, func() {
		handleMessage(nil, &whatsapp.Message{ID: "wamid.1", Type: whatsapp.TypeText})
	})
	assert.NotPanics(t, func() {
		handleMessage(nil, &whatsapp.Message{ID: "wamid.2", Type: whatsapp.TypeLocation})
	})
}
