package nextion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func TestFramerIdleGap(t *testing.T) {
	f := NewFramer(FrameSize, FrameGap)

	assert.Empty(t, f.Feed([]byte("FILL"), t0))
	assert.Empty(t, f.Feed([]byte("ING_ON"), t0.Add(20*time.Millisecond)))

	_, ok := f.Poll(t0.Add(60 * time.Millisecond))
	assert.False(t, ok, "gap measured from last byte")

	frame, ok := f.Poll(t0.Add(70 * time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, "FILLING_ON", string(frame))
	assert.Zero(t, f.Pending())

	_, ok = f.Poll(t0.Add(time.Second))
	assert.False(t, ok, "nothing buffered")
}

func TestFramerOverflow(t *testing.T) {
	f := NewFramer(10, FrameGap)
	frames := f.Feed([]byte("0123456789abcdefghij_tail"), t0)

	require.Len(t, frames, 2)
	assert.Equal(t, "0123456789", string(frames[0]))
	assert.Equal(t, "abcdefghij", string(frames[1]))
	assert.Equal(t, 5, f.Pending())
}

func TestFrameTerminator(t *testing.T) {
	got := Frame(NumberCommand("nTemp", 42))
	assert.Equal(t, append([]byte("nTemp.val=42"), 0xFF, 0xFF, 0xFF), got)
}

func TestTextCommand(t *testing.T) {
	assert.Equal(t, `tFlow.txt="1.25"`, TextCommand("tFlow", "1.25"))
	assert.Equal(t, "tBlinkEF.en=1", propertyCommand("tBlinkEF", "en", 1))
}
