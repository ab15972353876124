package gpio

import (
	"errors"
	"testing"
)

func TestFakeInputsRead(t *testing.T) {
	samples := []Sample{
		{Float: true, FlowSwitch: false},
		{Float: false, FlowSwitch: true},
	}

	f := NewFakeInputs(samples)

	fl, fs, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl != true || fs != false {
		t.Errorf("sample 0: expected (true, false), got (%v, %v)", fl, fs)
	}

	fl, fs, err = f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fl != false || fs != true {
		t.Errorf("sample 1: expected (false, true), got (%v, %v)", fl, fs)
	}

	// Exhausted samples repeat the last one
	fl, fs, _ = f.Read()
	if fl != false || fs != true {
		t.Errorf("sample 2 (repeat): expected (false, true), got (%v, %v)", fl, fs)
	}

	f.Reset()
	fl, _, _ = f.Read()
	if !fl {
		t.Error("after Reset: expected first sample again")
	}
}

func TestFakeInputsErrors(t *testing.T) {
	f := NewFakeInputs(nil)
	if _, _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}

	f = NewFakeInputs([]Sample{{Float: true}})
	f.ReadError = errors.New("bus fault")
	if _, _, err := f.Read(); err == nil {
		t.Error("expected configured read error")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed after Close")
	}
}

func TestFakeWriterRecords(t *testing.T) {
	w := NewFakeWriter()

	if err := w.Write(ValveInlet, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.Write(Compressor, true)
	w.Write(ValveInlet, false)

	if w.Level(ValveInlet) {
		t.Error("inlet: expected low after last write")
	}
	if !w.Level(Compressor) {
		t.Error("compressor: expected high")
	}

	writes := w.Writes()
	if len(writes) != 3 {
		t.Fatalf("writes: got %d, want 3", len(writes))
	}
	if writes[1] != (Write{Actuator: Compressor, On: true}) {
		t.Errorf("writes[1]: got %+v", writes[1])
	}
}

func TestFakeWriterFailOn(t *testing.T) {
	w := NewFakeWriter()
	w.FailOn(Ozone, errors.New("relay stuck"))

	if err := w.Write(Ozone, true); err == nil {
		t.Error("expected error for failing actuator")
	}
	if w.Level(Ozone) {
		t.Error("failed write must not change level")
	}

	w.FailOn(Ozone, nil)
	if err := w.Write(Ozone, true); err != nil {
		t.Errorf("after clear: unexpected error %v", err)
	}
}

func TestActuatorString(t *testing.T) {
	tests := []struct {
		a    Actuator
		want string
	}{
		{ValveInlet, "VALVE_INLET"},
		{ValveDrain, "VALVE_DRAIN"},
		{Compressor, "COMPRESSOR"},
		{PumpUV, "PUMP_UV"},
		{Ozone, "OZONE"},
		{Buzzer, "BUZZER"},
		{Actuator(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.a.String(); got != tt.want {
			t.Errorf("Actuator(%d).String(): got %q, want %q", int(tt.a), got, tt.want)
		}
	}
}

func TestPinsOutput(t *testing.T) {
	p := DefaultPins
	if got := p.Output(ValveInlet); got != 26 {
		t.Errorf("inlet pin: got %d, want 26", got)
	}
	if got := p.Output(Buzzer); got != 18 {
		t.Errorf("buzzer pin: got %d, want 18", got)
	}
	if got := p.Output(Actuator(-1)); got != -1 {
		t.Errorf("unknown pin: got %d, want -1", got)
	}
}
