package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyS0", cfg.SerialPort)
	assert.Equal(t, 9600, cfg.SerialBaud)
	assert.Equal(t, 50*time.Millisecond, cfg.FrameGap)
	assert.Equal(t, 100*time.Millisecond, cfg.Poll)
	assert.Equal(t, 15*time.Minute, cfg.Heartbeat)
	assert.Equal(t, 26, cfg.PinInlet)
	assert.Equal(t, "water/controller", cfg.TopicPrefix)
	assert.False(t, cfg.LogConsole)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyAMA0")
	t.Setenv("FRAME_GAP", "80ms")
	t.Setenv("PIN_FLOW_METER", "17")
	t.Setenv("LOG_CONSOLE", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyAMA0", cfg.SerialPort)
	assert.Equal(t, 80*time.Millisecond, cfg.FrameGap)
	assert.Equal(t, 17, cfg.PinFlowMeter)
	assert.True(t, cfg.LogConsole)
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("MQTT_BROKER=tcp://10.0.0.5:1883\nHTTP_ADDR=:8080\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("MQTT_BROKER")
		os.Unsetenv("HTTP_ADDR")
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "tcp://10.0.0.5:1883", cfg.Broker)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadMalformedDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("SERIAL_PORT=\"/dev/ttyUSB0\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.env")
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("POLL", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
