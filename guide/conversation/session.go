package conversation

import "github.com/m3rciful/museumguide/guide/content"

// State is a node of the conversation machine.
type State string

// StateIdle covers fresh users and sessions lost after a failure.
// StateAwaitExhibit waits for an exhibit name from the current listing and
// StateAwaitBack follows delivered content.
const (
	StateIdle         State = "idle"
	StateAwaitGuide   State = "await_guide"
	StateAwaitSection State = "await_section"
	StateAwaitExhibit State = "await_exhibit"
	StateAwaitBack    State = "await_back"
)

// Guide is the content modality chosen by the user.
type Guide string

const (
	GuideUnset Guide = ""
	GuideAudio Guide = "audio"
	GuideText  Guide = "text"
	GuideVideo Guide = "video"
)

// Section is the exhibit category chosen by the user.
type Section string

const (
	SectionUnset   Section = ""
	SectionIntro   Section = "intro"
	SectionArcade  Section = "arcade"
	SectionNPA     Section = "npa"
	SectionPinball Section = "pinball"
)

// Kind maps a listable section to its exhibit kind.
func (s Section) Kind() (content.Kind, bool) {
	switch s {
	case SectionArcade:
		return content.KindArcade, true
	case SectionNPA:
		return content.KindNPA, true
	case SectionPinball:
		return content.KindPinball, true
	}
	return "", false
}

// Session is the per-user conversation state persisted between messages.
type Session struct {
	State   State   `json:"state"`
	Guide   Guide   `json:"guide,omitempty"`
	Section Section `json:"section,omitempty"`
	// LastText is the last accepted raw text, used by the duplicate guard.
	LastText string `json:"last_text,omitempty"`
}

// Reset clears the navigation choices and keeps the duplicate guard memory.
func (s *Session) Reset() {
	*s = Session{State: StateIdle, LastText: s.LastText}
}

func (s Session) current() State {
	if s.State == "" {
		return StateIdle
	}
	return s.State
}
