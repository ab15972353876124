package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/water-controller/internal/gpio"
	"github.com/sweeney/water-controller/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"duration": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(on bool) string {
		if on {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Water Controller</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.invalid { color: orange; }
.error { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Water Controller</h1>

<h2>State</h2>
<table>
<tr><th>Current</th><td id="state" class="{{if eq .State "ERROR"}}error{{else if eq .State "IDLE"}}off{{else}}on{{end}}">{{.State}}</td></tr>
<tr><th>Previous</th><td>{{.Previous}}</td></tr>
<tr><th>In state</th><td>{{duration .InState}}</td></tr>
<tr><th>Transitions</th><td>{{.Transitions}}</td></tr>
<tr><th>Clock</th><td>{{.ClockText}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Sensors</h2>
<table>
<tr><th>Temperature</th>{{if .Sensors.TempValid}}<td>{{printf "%.1f" .Sensors.Temperature}} &deg;C</td>{{else}}<td class="invalid">invalid</td>{{end}}</tr>
<tr><th>TDS</th>{{if .Sensors.TDSValid}}<td>{{.Sensors.TDS}} ppm</td>{{else}}<td class="invalid">invalid</td>{{end}}</tr>
<tr><th>Flow</th><td>{{printf "%.2f" .Sensors.FlowRate}} L/min</td></tr>
<tr><th>Pulses</th><td>{{.Sensors.TotalPulses}}</td></tr>
<tr><th>Float</th><td>{{if .Sensors.FloatLevel}}full{{else}}low{{end}}</td></tr>
<tr><th>Flow switch</th><td>{{onOff .Sensors.FlowSwitch}}</td></tr>
</table>

<h2>Actuators</h2>
<table>
{{range .Outputs}}<tr><th>{{.Name}}</th><td class="{{if .On}}on{{else}}off{{end}}">{{onOff .On}}</td></tr>
{{end}}</table>

<h2>Operator</h2>
<table>
<tr><th>Cooling</th><td>{{onOff .Operator.Cooling}}</td></tr>
<tr><th>Filling</th><td>{{onOff .Operator.Filling}}</td></tr>
<tr><th>Draining</th><td>{{onOff .Operator.Draining}}</td></tr>
<tr><th>Auto</th><td>{{onOff .Operator.Auto}}</td></tr>
<tr><th>Circulation</th><td>{{onOff .Operator.Circulation}}</td></tr>
<tr><th>Bypass menu</th><td>{{onOff .Operator.InBypassMenu}}</td></tr>
</table>

<h2>Setpoints</h2>
<table>
<tr><th>Cooling target</th><td>{{.Setpoints.CoolingValue}} &deg;C</td></tr>
<tr><th>Set time</th><td>{{.Setpoints.SetTime}}</td></tr>
<tr><th>Auto start</th><td>{{.Setpoints.SetAuto}}</td></tr>
<tr><th>Days</th><td>{{.Setpoints.Days}}</td></tr>
<tr><th>Auto temp</th><td>{{.Setpoints.AutoTemp}} &deg;C</td></tr>
<tr><th>Count</th><td>{{.Setpoints.Count}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Serial</th><td>{{.Config.SerialPort}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{duration .Up}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Sensor poll</th><td>{{.Config.SensorPollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type output struct {
	Name string
	On   bool
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	outputs := make([]output, 0, gpio.NumActuators)
	for _, a := range gpio.All() {
		outputs = append(outputs, output{Name: a.String(), On: snap.Actuators[a]})
	}
	clock := snap.Clock
	if clock == "" {
		clock = "--:--"
	}

	// Methods on Snapshot are not reachable as plain fields in the template.
	data := struct {
		status.Snapshot
		State     string
		Previous  string
		InState   time.Duration
		Up        time.Duration
		ClockText string
		Outputs   []output
	}{
		Snapshot:  snap,
		State:     snap.Machine.Current.String(),
		Previous:  snap.Machine.Previous.String(),
		InState:   snap.TimeInState(),
		Up:        snap.Uptime(),
		ClockText: clock,
		Outputs:   outputs,
	}
	indexTmpl.Execute(w, data)
}
