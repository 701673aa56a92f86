package domain

// statusOrder holds the ordered statuses per channel. Transitions may skip
// ahead in the ordering but never move back; rejected is terminal everywhere.
var statusOrder = map[Channel][]Status{
	ChannelSMS:  {StatusProcessing, StatusRejected, StatusSent, StatusDelivered},
	ChannelChat: {StatusProcessing, StatusRejected, StatusSent, StatusDelivered, StatusViewed},
}

// StatusOrder returns the ordered status sequence for a channel, or nil for
// an unknown channel.
func StatusOrder(channel Channel) []Status {
	order, ok := statusOrder[channel]
	if !ok {
		return nil
	}
	out := make([]Status, len(order))
	copy(out, order)
	return out
}

// InitialStatus returns the first entry of the channel's ordering.
func InitialStatus(channel Channel) (Status, bool) {
	order, ok := statusOrder[channel]
	if !ok || len(order) == 0 {
		return "", false
	}
	return order[0], true
}

// CanTransition reports whether from -> to is a legal status change for the
// channel: both statuses must belong to the channel's ordering, from must not
// be the terminal rejected state, and to must come strictly later than from.
func CanTransition(channel Channel, from, to Status) bool {
	order, ok := statusOrder[channel]
	if !ok {
		return false
	}

	fromIdx := indexOf(order, from)
	toIdx := indexOf(order, to)
	if fromIdx < 0 || toIdx < 0 {
		return false
	}

	if from == StatusRejected {
		return false
	}

	return toIdx > fromIdx
}

func indexOf(order []Status, s Status) int {
	for i, candidate := range order {
		if candidate == s {
			return i
		}
	}
	return -1
}
