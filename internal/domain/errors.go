package domain

import (
	"errors"
	"strings"
)

// Kind sentinels. Match with errors.Is against any *Error.
var (
	ErrIncompleteAddress = errors.New("incomplete device address")
	ErrNoDeviceFound     = errors.New("no device found")
	ErrConnectionRefused = errors.New("connection refused")
	ErrConnectionTimeout = errors.New("connection timed out")
	ErrUnconfirmed       = errors.New("connection unconfirmed")

	ErrMissingArgs = errors.New("missing arguments")
	ErrUnresolved  = errors.New("query could not be resolved")

	ErrRemoteTimeout = errors.New("remote command timed out")
	ErrRemoteFailure = errors.New("remote command failed")
)

type ErrorClass string

const (
	ClassConnection ErrorClass = "connection"
	ClassResolution ErrorClass = "resolution"
	ClassDispatch   ErrorClass = "dispatch"
)

const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitConnection    = 2
	ExitResolution    = 3
	ExitRemoteCommand = 4
)

// Error carries one of the kind sentinels plus a message for the user.
type Error struct {
	Kind    error
	Message string
	// Missing lists absent arguments for ErrMissingArgs.
	Missing []string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Class() ErrorClass {
	return classOf(e.Kind)
}

func NewError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func MissingArgsError(missing ...string) *Error {
	return &Error{
		Kind:    ErrMissingArgs,
		Message: "global search requires " + strings.Join(missing, ", "),
		Missing: missing,
	}
}

func classOf(kind error) ErrorClass {
	switch kind {
	case ErrIncompleteAddress, ErrNoDeviceFound, ErrConnectionRefused, ErrConnectionTimeout, ErrUnconfirmed:
		return ClassConnection
	case ErrMissingArgs, ErrUnresolved:
		return ClassResolution
	case ErrRemoteTimeout, ErrRemoteFailure:
		return ClassDispatch
	default:
		return ""
	}
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		return ExitUsage
	}
	if errors.Is(domainErr, ErrMissingArgs) {
		return ExitUsage
	}

	switch domainErr.Class() {
	case ClassConnection:
		return ExitConnection
	case ClassResolution:
		return ExitResolution
	case ClassDispatch:
		return ExitRemoteCommand
	default:
		return ExitUsage
	}
}
