package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// Request commands.
const (
	CmdEcho  = "echo"
	CmdJoin  = "join"
	CmdLeave = "leave"
	CmdName  = "name"
	CmdRooms = "rooms"
)

// ResponseSuccess is the reply to every request that succeeded without data.
const ResponseSuccess = "SUCCESS"

// Reasons carried in an "ERROR <reason>" response.
const (
	ReasonInvalidCommand  = "invalid request command"
	ReasonInvalidRoomCode = "invalid room code"
	ReasonRoomNotFound    = "room does not exist"
	ReasonAlreadyInRoom   = "already in a room"
	ReasonNotInRoom       = "not in a room"
	ReasonNameTaken       = "name already taken"
	ReasonRoomFull        = "room is full"
	ReasonInvalidName     = "invalid name"
	ReasonNotYourTurn     = "not your turn"
)

// MaxNameLength bounds player names.
const MaxNameLength = 24

// ErrRequestFailed wraps the reason of an error response.
var ErrRequestFailed = errors.New("request failed")

// Request is a parsed basic request.
type Request struct {
	Command string
	Arg     string
}

// ParseRequest splits "command [argument]". The command is case-insensitive;
// the argument keeps its case and inner spaces.
func ParseRequest(text string) (Request, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(text), " ")
	req := Request{Command: strings.ToLower(cmd), Arg: strings.TrimSpace(arg)}
	switch req.Command {
	case CmdEcho, CmdLeave, CmdRooms:
	case CmdJoin:
		if !ValidRoomCode(req.Arg) {
			return req, fmt.Errorf("%w: %s", ErrRequestFailed, ReasonInvalidRoomCode)
		}
	case CmdName:
		if req.Arg == "" || len(req.Arg) > MaxNameLength {
			return req, fmt.Errorf("%w: %s", ErrRequestFailed, ReasonInvalidName)
		}
	default:
		return req, fmt.Errorf("%w: %s", ErrRequestFailed, ReasonInvalidCommand)
	}
	return req, nil
}

// ValidRoomCode reports whether code is four upper-case letters or digits
// with at least one letter.
func ValidRoomCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	letters := 0
	for _, r := range code {
		switch {
		case r >= 'A' && r <= 'Z':
			letters++
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return letters > 0
}

// ErrorResponse formats a failure reply.
func ErrorResponse(reason string) string {
	return "ERROR " + reason
}

// ParseResponse turns a response string into an error when it reports one.
func ParseResponse(text string) (string, error) {
	if reason, ok := strings.CutPrefix(text, "ERROR "); ok {
		return "", fmt.Errorf("%w: %s", ErrRequestFailed, reason)
	}
	return text, nil
}

// Reason extracts the reason from an error produced by this package.
func Reason(err error) string {
	msg := err.Error()
	if _, reason, ok := strings.Cut(msg, ErrRequestFailed.Error()+": "); ok {
		return reason
	}
	return msg
}
