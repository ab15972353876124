package sensor

import "errors"

var errNoValues = errors.New("no values configured")

// FakeProbe returns scripted temperatures, repeating the last one.
type FakeProbe struct {
	Values []float64
	Err    error
	index  int
}

// ReadCelsius returns the next scripted value.
func (f *FakeProbe) ReadCelsius() (float64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Values) == 0 {
		return 0, errNoValues
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}

// FakeADC returns scripted raw samples, repeating the last one.
type FakeADC struct {
	Values []int
	Err    error
	index  int
}

// ReadRaw returns the next scripted value.
func (f *FakeADC) ReadRaw() (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	if len(f.Values) == 0 {
		return 0, errNoValues
	}
	v := f.Values[f.index]
	if f.index < len(f.Values)-1 {
		f.index++
	}
	return v, nil
}
