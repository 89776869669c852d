package models

// Direction indicates which side of the router placed the call.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// CallStatus is the signaling state extracted from a SIP syslog line.
type CallStatus string

const (
	StatusConnecting   CallStatus = "connecting"
	StatusConnected    CallStatus = "connected"
	StatusDisconnected CallStatus = "disconnected"
)

// SyslogLine is one timestamped record from the router's dashboard syslog.
// Continuation lines without a timestamp are folded into Message.
type SyslogLine struct {
	Date    string
	Time    string
	Message string
}

// CallEvent is one SIP call transition detected in the syslog.
// FromNumber/ToNumber are extracted from the SIP URIs and may be empty
// when the URI carries no usable number (anonymous or malformed).
type CallEvent struct {
	Date       string
	Time       string
	Direction  Direction
	From       string
	FromNumber string
	To         string
	ToNumber   string
	Status     CallStatus
}

// CallDetail is the matching subject for destination and self routing.
// Incoming: self is the called side, caller the remote side. Outgoing
// swaps the two.
type CallDetail struct {
	Direction    Direction
	SelfNumber   string
	CallerNumber string
	Status       CallStatus
}

// Detail derives the routing view of the event.
func (e *CallEvent) Detail() CallDetail {
	detail := CallDetail{
		Direction: e.Direction,
		Status:    e.Status,
	}
	if e.Direction == DirectionIncoming {
		detail.SelfNumber = e.ToNumber
		detail.CallerNumber = e.FromNumber
	} else {
		detail.SelfNumber = e.FromNumber
		detail.CallerNumber = e.ToNumber
	}
	return detail
}
