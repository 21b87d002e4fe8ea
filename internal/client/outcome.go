package client

import "fmt"

// Kind classifies how a submission ended.
type Kind int

const (
	Accepted Kind = iota
	Rejected
	NetworkFailure
)

func (k Kind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case NetworkFailure:
		return "network-failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Outcome is the result of posting a form. Reason carries the server's error
// text for Rejected; Err carries the transport error for NetworkFailure.
type Outcome struct {
	Kind    Kind
	Status  int
	Reason  string
	Message string
	Err     error
}

func accepted(status int, message string) Outcome {
	return Outcome{Kind: Accepted, Status: status, Message: message}
}

func rejected(status int, reason string) Outcome {
	return Outcome{Kind: Rejected, Status: status, Reason: reason}
}

func networkFailure(err error) Outcome {
	return Outcome{Kind: NetworkFailure, Err: err}
}
