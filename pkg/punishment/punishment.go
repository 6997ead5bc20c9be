// Package punishment classifies protocol errors into the peer-discipline
// action they warrant: nothing, a disconnect, or a lasting disable. The
// classification is a pure, total function of the error alone — it never
// depends on history or peer reputation, which is the reputation table's
// concern (see pkg/peer).
package punishment

import "fmt"

// Punishment is the disciplinary action a protocol error warrants, ordered
// from least to most severe so peer-reputation bookkeeping can keep the
// harsher of two punishments with a simple comparison.
type Punishment uint8

const (
	// None takes no action against the peer.
	None Punishment = iota
	// Disconnect ends the current connection but allows reconnection.
	Disconnect
	// Disable ends the connection and refuses future connections.
	Disable
)

func (p Punishment) String() string {
	switch p {
	case None:
		return "None"
	case Disconnect:
		return "Disconnect"
	case Disable:
		return "Disable"
	default:
		return fmt.Sprintf("Punishment(%d)", uint8(p))
	}
}

// Error is a protocol-level fault observed on a peer connection.
type Error uint8

const (
	ErrMalformedWire Error = iota
	ErrNoCredits
	ErrUnrecognizedPacket
	ErrUnexpectedHandshake
	ErrWrongNetwork
	ErrUnknownPeer
	ErrUnsolicitedResponse
	ErrBadBackReference
	ErrNotServer
	ErrUnsupportedProtocolVersion
	ErrBadProtocolVersion
	ErrNetworkIO
	ErrOverburdened
	ErrRejectedByHandlers
)

var errorNames = [...]string{
	"MalformedWire", "NoCredits", "UnrecognizedPacket", "UnexpectedHandshake",
	"WrongNetwork", "UnknownPeer", "UnsolicitedResponse", "BadBackReference",
	"NotServer", "UnsupportedProtocolVersion", "BadProtocolVersion",
	"NetworkIO", "Overburdened", "RejectedByHandlers",
}

func (e Error) String() string {
	if int(e) < len(errorNames) {
		return errorNames[e]
	}
	return fmt.Sprintf("Error(%d)", uint8(e))
}

func (e Error) Error() string { return "punishment: " + e.String() }

// Classify maps a protocol error to the disciplinary action it warrants.
// Malformed or dishonest behavior (bad wire data, bad back-references,
// unsolicited responses, credit abuse, protocol mismatches) earns a lasting
// Disable; confused-but-not-dishonest behavior earns a Disconnect;
// environmental failures earn no punishment at all.
func Classify(e Error) Punishment {
	switch e {
	case ErrMalformedWire, ErrNoCredits, ErrWrongNetwork, ErrUnsolicitedResponse,
		ErrBadBackReference, ErrNotServer, ErrUnsupportedProtocolVersion,
		ErrBadProtocolVersion:
		return Disable
	case ErrUnrecognizedPacket, ErrUnexpectedHandshake, ErrUnknownPeer,
		ErrRejectedByHandlers:
		return Disconnect
	case ErrNetworkIO, ErrOverburdened:
		return None
	default:
		return Disconnect
	}
}
