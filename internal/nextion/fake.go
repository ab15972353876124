package nextion

import "sync"

// FakeSender records commands for test assertions.
type FakeSender struct {
	mu   sync.Mutex
	cmds []string

	// Err, if set, is returned by Send and nothing is recorded.
	Err error
}

// Send records cmd.
func (f *FakeSender) Send(cmd string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.cmds = append(f.cmds, cmd)
	return nil
}

// Commands returns a copy of every recorded command.
func (f *FakeSender) Commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cmds...)
}

// Reset forgets recorded commands.
func (f *FakeSender) Reset() {
	f.mu.Lock()
	f.cmds = nil
	f.mu.Unlock()
}
