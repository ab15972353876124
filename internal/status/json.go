package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string          `json:"event,omitempty"`
	Reason         string          `json:"reason,omitempty"`
	State          string          `json:"state"`
	Previous       string          `json:"previous_state"`
	SecondsInState int64           `json:"seconds_in_state"`
	Ready          bool            `json:"ready"`
	UptimeSeconds  int64           `json:"uptime_seconds"`
	StartTime      string          `json:"start_time"`
	Timestamp      string          `json:"timestamp"`
	Clock          string          `json:"clock"`
	Transitions    int             `json:"transitions"`
	Sensors        SensorsJSON     `json:"sensors"`
	Actuators      map[string]bool `json:"actuators"`
	Operator       OperatorJSON    `json:"operator"`
	Setpoints      SetpointsJSON   `json:"setpoints"`
	MQTT           MQTTStatus      `json:"mqtt"`
	Network        *NetworkJSON    `json:"network,omitempty"`
	Config         ConfigJSON      `json:"config"`
}

// SensorsJSON is the JSON representation of the sensor snapshot.
// Invalid readings are null.
type SensorsJSON struct {
	Temperature *float64 `json:"temperature_c"`
	TDS         *int     `json:"tds_ppm"`
	FlowRate    float64  `json:"flow_lpm"`
	TotalPulses uint32   `json:"total_pulses"`
	FloatLevel  bool     `json:"float_level"`
	FlowSwitch  bool     `json:"flow_switch"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// OperatorJSON is the JSON representation of the operator toggles.
type OperatorJSON struct {
	Cooling     bool            `json:"cooling"`
	Filling     bool            `json:"filling"`
	Draining    bool            `json:"draining"`
	Auto        bool            `json:"auto"`
	Circulation bool            `json:"circulation"`
	BypassMenu  bool            `json:"bypass_menu"`
	Bypass      map[string]bool `json:"bypass"`
}

// SetpointsJSON is the JSON representation of committed setpoints.
type SetpointsJSON struct {
	CoolingTarget int    `json:"cooling_target_c"`
	SetTime       string `json:"set_time"`
	SetAuto       string `json:"set_auto"`
	Days          int    `json:"days"`
	AutoTemp      int    `json:"auto_temp_c"`
	Count         int    `json:"count"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of controller config.
type ConfigJSON struct {
	PollMs       int64  `json:"poll_ms"`
	SensorPollMs int64  `json:"sensor_poll_ms"`
	HeartbeatMs  int64  `json:"heartbeat_ms"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
	SerialPort   string `json:"serial_port"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func buildSensors(snap Snapshot) SensorsJSON {
	s := snap.Sensors
	out := SensorsJSON{
		FlowRate:    s.FlowRate,
		TotalPulses: s.TotalPulses,
		FloatLevel:  s.FloatLevel,
		FlowSwitch:  s.FlowSwitch,
		UpdatedAt:   formatTime(s.UpdatedAt),
	}
	if s.TempValid {
		v := s.Temperature
		out.Temperature = &v
	}
	if s.TDSValid {
		v := s.TDS
		out.TDS = &v
	}
	return out
}

func buildActuators(snap Snapshot) map[string]bool {
	out := make(map[string]bool, gpio.NumActuators)
	for _, a := range gpio.All() {
		out[a.String()] = snap.Actuators[a]
	}
	return out
}

func buildInner(snap Snapshot) StatusInner {
	op := snap.Operator
	sp := snap.Setpoints

	clock := snap.Clock
	if clock == "" {
		clock = "--:--"
	}

	return StatusInner{
		State:          snap.Machine.Current.String(),
		Previous:       snap.Machine.Previous.String(),
		SecondsInState: int64(snap.TimeInState().Truncate(time.Second).Seconds()),
		Ready:          snap.Ready,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		Clock:          clock,
		Transitions:    snap.Transitions,
		Sensors:        buildSensors(snap),
		Actuators:      buildActuators(snap),
		Operator: OperatorJSON{
			Cooling:     op.Cooling,
			Filling:     op.Filling,
			Draining:    op.Draining,
			Auto:        op.Auto,
			Circulation: op.Circulation,
			BypassMenu:  op.InBypassMenu,
			Bypass: map[string]bool{
				"inlet":      op.BypassInlet,
				"drain":      op.BypassDrain,
				"compressor": op.BypassCompressor,
				"pump_uv":    op.BypassPumpUV,
				"ozone":      op.BypassOzone,
				"hydro":      op.BypassHydro,
			},
		},
		Setpoints: SetpointsJSON{
			CoolingTarget: sp.CoolingValue,
			SetTime:       sp.SetTime,
			SetAuto:       sp.SetAuto,
			Days:          sp.Days,
			AutoTemp:      sp.AutoTemp,
			Count:         sp.Count,
			UpdatedAt:     formatTime(sp.UpdatedAt),
		},
		MQTT: MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:       snap.Config.PollMs,
			SensorPollMs: snap.Config.SensorPollMs,
			HeartbeatMs:  snap.Config.HeartbeatMs,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
			SerialPort:   snap.Config.SerialPort,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
