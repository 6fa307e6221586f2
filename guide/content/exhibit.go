// Package content holds the read-only exhibit catalog of the museum guide.
package content

import (
	"errors"
	"strings"
)

// Kind classifies an exhibit record.
type Kind string

const (
	KindArcade  Kind = "Arcade"
	KindNPA     Kind = "NPA"
	KindPinball Kind = "Pinball"
	KindIntro   Kind = "Intro"
)

// NoVideo marks records without a video review in the source data.
const NoVideo = "none"

var (
	// ErrNotFound is returned when no exhibit matches a lookup.
	ErrNotFound = errors.New("content: exhibit not found")
	// ErrInvalid wraps validation failures of the source data.
	ErrInvalid = errors.New("content: invalid catalog")
)

// Exhibit is one museum piece with its pre-authored guide content.
type Exhibit struct {
	Name       string `json:"name" yaml:"name" db:"name"`
	Kind       Kind   `json:"type" yaml:"type" db:"type"`
	AudioGuide string `json:"audioguide" yaml:"audioguide" db:"audioguide"`
	TextGuide  string `json:"textguide" yaml:"textguide" db:"textguide"`
	VideoGuide string `json:"videoguide" yaml:"videoguide" db:"videoguide"`
}

// HasVideo reports whether a video review link is present.
func (e Exhibit) HasVideo() bool {
	v := strings.TrimSpace(e.VideoGuide)
	return v != "" && !strings.EqualFold(v, NoVideo)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindArcade, KindNPA, KindPinball, KindIntro:
		return true
	}
	return false
}
