package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RUN_ADDRESS", "LOG_LEVEL", "PRODUCT_BASE_URL", "ORDER_BASE_URL", "PRODUCT_IDS",
		"CHECKOUT_DELAY", "ORDER_PAYLOAD", "REQUEST_TIMEOUT", "DATABASE_URI",
	} {
		t.Setenv(key, "")
	}
}

func TestParseDefaults(t *testing.T) {
	clearEnv(t)

	o := NewOptions()
	require.NoError(t, o.Parse(nil))
	require.NoError(t, o.Validate())

	assert.Equal(t, ":8080", o.RunAddr())
	assert.Equal(t, []string{"1", "2"}, o.ProductIDs())
	assert.Equal(t, 2*time.Second, o.CheckoutDelay())
	assert.Equal(t, "flat", o.OrderPayload())
	assert.Equal(t, 10*time.Second, o.RequestTimeout())
}

func TestParseEnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRODUCT_IDS", "7, 8 ,,9")
	t.Setenv("CHECKOUT_DELAY", "250ms")
	t.Setenv("ORDER_PAYLOAD", "nested")

	o := NewOptions()
	require.NoError(t, o.Parse([]string{"-a", ":9090", "-o", "http://oms:8080"}))
	require.NoError(t, o.Validate())

	assert.Equal(t, ":9090", o.RunAddr())
	assert.Equal(t, "http://oms:8080", o.OrderBaseURL)
	assert.Equal(t, []string{"7", "8", "9"}, o.ProductIDs())
	assert.Equal(t, 250*time.Millisecond, o.CheckoutDelay())
	assert.Equal(t, "nested", o.OrderPayload())
}

func TestValidateRejects(t *testing.T) {
	tests := map[string][]string{
		"unknown payload":   {"-v", "xml"},
		"bad product url":   {"-p", "not a url"},
		"no product ids":    {"-i", " , "},
		"unknown log level": {"-l", "loud"},
		"zero timeout":      {"-t", "0s"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			o := NewOptions()
			require.NoError(t, o.Parse(args))
			assert.Error(t, o.Validate())
		})
	}
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("CHECKOUT_DELAY", "soon")
	assert.Equal(t, time.Second, getDurationOrDefault("CHECKOUT_DELAY", time.Second))
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitIDs(" a ,b,"))
	assert.Nil(t, SplitIDs(""))
}
