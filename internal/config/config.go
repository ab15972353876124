// Package config loads daemon settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every tunable of the controller daemon.
type Config struct {
	// Display serial link
	SerialPort string        `env:"SERIAL_PORT" envDefault:"/dev/ttyS0"`
	SerialBaud int           `env:"SERIAL_BAUD" envDefault:"9600"`
	FrameGap   time.Duration `env:"FRAME_GAP" envDefault:"50ms"`

	// Task periods
	Poll        time.Duration `env:"POLL" envDefault:"100ms"`
	SensorPoll  time.Duration `env:"SENSOR_POLL" envDefault:"100ms"`
	DisplaySync time.Duration `env:"DISPLAY_SYNC" envDefault:"500ms"`
	Heartbeat   time.Duration `env:"HEARTBEAT" envDefault:"15m"`

	// GPIO (BCM numbering)
	GPIOChip      string `env:"GPIO_CHIP" envDefault:"gpiochip0"`
	PinInlet      int    `env:"PIN_VALVE_INLET" envDefault:"26"`
	PinDrain      int    `env:"PIN_VALVE_DRAIN" envDefault:"13"`
	PinCompressor int    `env:"PIN_COMPRESSOR" envDefault:"25"`
	PinPumpUV     int    `env:"PIN_PUMP_UV" envDefault:"27"`
	PinOzone      int    `env:"PIN_OZONE" envDefault:"12"`
	PinBuzzer     int    `env:"PIN_BUZZER" envDefault:"18"`
	PinFloat      int    `env:"PIN_FLOAT_SENSOR" envDefault:"5"`
	PinFlowSwitch int    `env:"PIN_FLOW_SWITCH" envDefault:"6"`
	PinFlowMeter  int    `env:"PIN_FLOW_METER" envDefault:"14"`

	// Analog / 1-wire / clock devices
	ProbeGlob string `env:"TEMP_PROBE_GLOB" envDefault:"/sys/bus/w1/devices/28-*/temperature"`
	ADCPath   string `env:"TDS_ADC_PATH" envDefault:"/sys/bus/iio/devices/iio:device0/in_voltage0_raw"`
	RTCDevice string `env:"RTC_DEVICE" envDefault:"/dev/rtc0"`

	// MQTT
	Broker      string `env:"MQTT_BROKER" envDefault:"tcp://localhost:1883"`
	ClientID    string `env:"MQTT_CLIENT_ID" envDefault:"water-controller"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"water/controller"`

	// HTTP status server (empty disables)
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":80"`

	// Logging
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogConsole bool   `env:"LOG_CONSOLE" envDefault:"false"`
}

// Load reads the given .env files (missing files are ignored) and then parses
// the environment. Variables already set in the environment win over .env.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
