package mqtt

// outMsg is one publish waiting for the broker.
type outMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox queues publishes made while the broker is unreachable. Transitions
// are kept in order up to the capacity, oldest dropped first. A retained
// message replaces any queued retained message on the same topic, so only
// the latest system event is replayed.
//
// The caller serializes access.
type outbox struct {
	msgs    []outMsg
	limit   int
	dropped int // since the last flush
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: max(limit, 1)}
}

// add queues m. It reports true when this add dropped the first message
// since the last flush.
func (o *outbox) add(m outMsg) bool {
	if m.retained {
		for i := range o.msgs {
			if o.msgs[i].retained && o.msgs[i].topic == m.topic {
				o.msgs[i] = m
				return false
			}
		}
	}
	if len(o.msgs) < o.limit {
		o.msgs = append(o.msgs, m)
		return false
	}
	copy(o.msgs, o.msgs[1:])
	o.msgs[len(o.msgs)-1] = m
	o.dropped++
	return o.dropped == 1
}

// flush returns the queued messages in publish order and empties the outbox.
func (o *outbox) flush() []outMsg {
	if len(o.msgs) == 0 {
		return nil
	}
	out := o.msgs
	o.msgs = nil
	o.dropped = 0
	return out
}

func (o *outbox) size() int {
	return len(o.msgs)
}
