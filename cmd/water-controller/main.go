// Command water-controller runs the water treatment controller: it reads the
// operator display over serial, fuses sensor input, drives the valves, pumps
// and compressor, and publishes state to MQTT and an HTTP status page.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/water-controller/internal/config"
	"github.com/sweeney/water-controller/internal/controller"
	"github.com/sweeney/water-controller/internal/fsm"
	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/logging"
	"github.com/sweeney/water-controller/internal/mqtt"
	"github.com/sweeney/water-controller/internal/nextion"
	"github.com/sweeney/water-controller/internal/process"
	"github.com/sweeney/water-controller/internal/rtc"
	"github.com/sweeney/water-controller/internal/sensor"
	"github.com/sweeney/water-controller/internal/setpoint"
	"github.com/sweeney/water-controller/internal/status"
	"github.com/sweeney/water-controller/internal/web"
)

const (
	serialReadTimeout = 10 * time.Millisecond
	startupBeep       = 200 * time.Millisecond
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.SerialPort, "serial", cfg.SerialPort, "Display serial device")
	flag.IntVar(&cfg.SerialBaud, "baud", cfg.SerialBaud, "Display serial baud rate")
	flag.DurationVar(&cfg.Poll, "poll", cfg.Poll, "Control tick interval")
	flag.DurationVar(&cfg.SensorPoll, "sensor-poll", cfg.SensorPoll, "Sensor fusion interval")
	flag.StringVar(&cfg.Broker, "broker", cfg.Broker, "MQTT broker address")
	flag.StringVar(&cfg.TopicPrefix, "topic-prefix", cfg.TopicPrefix, "MQTT topic prefix")
	flag.DurationVar(&cfg.Heartbeat, "heartbeat", cfg.Heartbeat, "Heartbeat interval (0 to disable)")
	flag.StringVar(&cfg.HTTPAddr, "http", cfg.HTTPAddr, "HTTP status address (empty to disable)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.LogConsole, "console", cfg.LogConsole, "Human-readable console logging")
	printState := flag.Bool("print-state", false, "Print current sensor readings and exit")

	flag.Parse()

	log := logging.New(os.Stderr, cfg.LogLevel, cfg.LogConsole)
	if err := run(cfg, *printState, log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func pinsFromConfig(cfg config.Config) gpio.Pins {
	return gpio.Pins{
		Inlet:      cfg.PinInlet,
		Drain:      cfg.PinDrain,
		Compressor: cfg.PinCompressor,
		PumpUV:     cfg.PinPumpUV,
		Ozone:      cfg.PinOzone,
		Buzzer:     cfg.PinBuzzer,
		Float:      cfg.PinFloat,
		FlowSwitch: cfg.PinFlowSwitch,
		FlowMeter:  cfg.PinFlowMeter,
	}
}

func run(cfg config.Config, printState bool, log *slog.Logger) error {
	pins := pinsFromConfig(cfg)

	// Sensors
	inputs, err := gpio.NewRealInputs(cfg.GPIOChip, pins)
	if err != nil {
		return fmt.Errorf("init inputs: %w", err)
	}
	defer inputs.Close()

	var probe sensor.Probe
	if p, err := sensor.FindW1Probe(cfg.ProbeGlob); err != nil {
		log.Warn("temperature probe unavailable", "glob", cfg.ProbeGlob, "err", err)
	} else {
		probe = p
	}
	fusion := sensor.New(probe, sensor.NewIIOADC(cfg.ADCPath), inputs, nil, log)

	if printState {
		fusion.Update(time.Now())
		s := fusion.Snapshot()
		temp := "invalid"
		if s.TempValid {
			temp = fmt.Sprintf("%.2f", s.Temperature)
		}
		fmt.Printf("temperature: %s, float: %v, flow switch: %v\n", temp, s.FloatLevel, s.FlowSwitch)
		return nil
	}

	meter, err := gpio.NewFlowMeter(cfg.GPIOChip, pins.FlowMeter, fusion.Pulses().Incrementer())
	if err != nil {
		return fmt.Errorf("init flow meter: %w", err)
	}
	defer meter.Close()

	// Actuators
	writer, err := gpio.NewRealWriter(cfg.GPIOChip, pins)
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	bank := gpio.NewBank(writer, log)
	defer bank.Close()

	clock := rtc.Open(cfg.RTCDevice, log)
	defer clock.Close()

	// Display link
	port, err := nextion.OpenPort(cfg.SerialPort, cfg.SerialBaud, serialReadTimeout)
	if err != nil {
		return fmt.Errorf("open display: %w", err)
	}
	defer port.Close()

	gateway := nextion.NewGateway(port, nextion.NewRecord(), cfg.FrameGap, log)
	display := nextion.NewDisplay(gateway, log)
	displaySync := nextion.NewSensorSync(fusion, clock, display)

	// Control core
	start := time.Now()
	store := setpoint.New(log)
	machine := fsm.New(fsm.Deps{
		Processes: process.New(fusion, bank, display, log),
		Actuators: bank,
		Display:   display,
		Toggles:   gateway.Record(),
		Setpoints: store,
	}, start, log)

	tracker := status.NewTracker(start, status.Config{
		PollMs:       cfg.Poll.Milliseconds(),
		SensorPollMs: cfg.SensorPoll.Milliseconds(),
		HeartbeatMs:  cfg.Heartbeat.Milliseconds(),
		Broker:       cfg.Broker,
		HTTPAddr:     cfg.HTTPAddr,
		SerialPort:   cfg.SerialPort,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	ctrl := controller.New(controller.Deps{
		Record:    gateway.Record(),
		Setpoints: store,
		Machine:   machine,
		Clock:     clock,
		Sensors:   fusion,
		Outputs:   bank,
		Tracker:   tracker,
	}, start, log)

	// MQTT
	publisher, err := mqtt.NewRealPublisher(mqtt.Options{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topics:   mqtt.NewTopics(cfg.TopicPrefix),
		Log:      logging.Component(log, "mqtt"),
	})
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()
	subscribeCommands(publisher, gateway, log)

	// Startup: outputs off, status snapshot published
	bank.AllOff()
	bank.Beep(startupBeep)
	tracker.SetMQTTConnected(publisher.IsConnected())
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Warn("failed to publish startup event", "err", err)
	}

	// HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, log)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", "addr", cfg.HTTPAddr)
	}

	// Background tasks stop before the port and devices close.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := gateway.Run(ctx, time.Now); err != nil {
			log.Error("display link stopped", "err", err)
		}
	}()
	go fusion.Run(ctx, cfg.SensorPoll, time.Now)
	go displaySync.Run(ctx, cfg.DisplaySync, time.Now)

	log.Info("started",
		"poll", cfg.Poll, "sensor_poll", cfg.SensorPoll, "serial", cfg.SerialPort,
		"broker", cfg.Broker, "heartbeat", cfg.Heartbeat, "rtc", clock.Valid())

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(ctrl, publisher, publisher, tracker, cfg.Heartbeat, log, time.Now, ticker.C, sigCh)
}

// subscribeCommands routes remote operator commands through the same
// vocabulary as the serial link.
func subscribeCommands(c mqtt.Commander, gateway *nextion.Gateway, log *slog.Logger) {
	err := c.SubscribeCommands(func(cmd string) {
		gateway.HandleMessage(cmd)
	})
	if err != nil {
		log.Warn("remote commands unavailable", "err", err)
	}
}

func runLoop(ctrl *controller.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, log *slog.Logger, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	publishTransition := func(tr fsm.Transition) {
		if err := publisher.PublishTransition(tr); err != nil {
			log.Warn("publish error", "err", err)
		}
	}

	for {
		select {
		case s := <-sig:
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			log.Info("shutting down", "signal", signalName)

			t := now()
			if tr, ok := ctrl.Shutdown(t); ok {
				publishTransition(tr)
			}
			event := mqtt.SystemEvent{
				Timestamp: t,
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warn("failed to publish shutdown event", "err", err)
			}
			return nil

		case <-tick:
			t := now()
			if tr, ok := ctrl.Tick(t); ok {
				publishTransition(tr)
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			hb := ctrl.Heartbeat(t, heartbeat)
			if hb == nil {
				continue
			}
			log.Info("heartbeat", "uptime", hb.Uptime, "transitions", hb.Transitions)
			hbEvent := mqtt.SystemEvent{
				Timestamp: hb.Timestamp,
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Warn("heartbeat publish error", "err", err)
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
