package transcript

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput = errors.New("transcript: url does not contain a video id")
	ErrUnavailable  = errors.New("transcript: no captions available")
	ErrNoStrategies = errors.New("transcript: no strategies configured")
)

// Kind classifies an Outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindNotAvailable
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotAvailable:
		return "not_available"
	case KindTransient:
		return "transient"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of a single strategy attempt.
type Outcome struct {
	Kind   Kind
	Text   string
	Reason string
}

func Success(text string) Outcome {
	return Outcome{Kind: KindSuccess, Text: text}
}

// NotAvailable reports that captions definitely do not exist for this
// strategy's channel in any requested language.
func NotAvailable(reason string) Outcome {
	return Outcome{Kind: KindNotAvailable, Reason: reason}
}

// Transient reports a network, timeout or parse failure.
func Transient(err error) Outcome {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Outcome{Kind: KindTransient, Reason: reason}
}

// Transcript is the final normalized text plus where it came from.
type Transcript struct {
	VideoID string
	Text    string
	Source  string
}

// Attempt records how one strategy ended.
type Attempt struct {
	Strategy string
	Kind     Kind
	Reason   string
}

// UnavailableError is returned when every strategy failed. It matches
// ErrUnavailable with errors.Is.
type UnavailableError struct {
	VideoID  string
	Attempts []Attempt
}

func (e *UnavailableError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "no captions available for %s", e.VideoID)
	for _, a := range e.Attempts {
		fmt.Fprintf(&sb, "; %s: %s", a.Strategy, a.Kind)
		if a.Reason != "" {
			fmt.Fprintf(&sb, " (%s)", a.Reason)
		}
	}
	return sb.String()
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}
