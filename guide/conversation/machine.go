// Package conversation implements the museum guide dialogue as an explicit
// state machine over a per-user Session.
package conversation

import (
	"fmt"
	"html"
	"strings"

	"github.com/m3rciful/museumguide/guide/content"
)

// Machine computes replies and the next session for one inbound text.
// It holds no per-user state and is safe for concurrent use.
type Machine struct {
	catalog *content.Catalog
}

// NewMachine builds a machine over a loaded catalog.
func NewMachine(catalog *content.Catalog) *Machine {
	return &Machine{catalog: catalog}
}

// Process runs the duplicate guard and, for accepted text, one machine step.
// Surrounding whitespace is ignored by both. A duplicate leaves the session
// unchanged and yields no replies.
func (m *Machine) Process(s Session, text string) (Session, []Reply, bool) {
	text = strings.TrimSpace(text)
	if IsDuplicate(&s, text) {
		return s, nil, true
	}
	next, replies := m.Step(s, text)
	return next, replies, false
}

// Reject answers text that must not reach the machine, such as an unknown
// bot command, with the unrecognized-input reply. The duplicate guard still
// applies.
func (m *Machine) Reject(s Session, text string) (Session, []Reply, bool) {
	text = strings.TrimSpace(text)
	if IsDuplicate(&s, text) {
		return s, nil, true
	}
	next, replies := m.unrecognized(s)
	return next, replies, false
}

// Step applies text to the session without consulting the duplicate guard.
func (m *Machine) Step(s Session, text string) (Session, []Reply) {
	text = strings.TrimSpace(text)
	if text == CommandStart || text == LabelRestart {
		return m.Start(s)
	}

	switch s.current() {
	case StateAwaitGuide:
		return m.onGuide(s, text)
	case StateAwaitSection:
		return m.onSection(s, text)
	case StateAwaitExhibit:
		return m.onExhibit(s, text)
	case StateAwaitBack:
		return m.onBack(s, text)
	default:
		return m.unrecognized(s)
	}
}

// Start resets the session and offers the guide types.
func (m *Machine) Start(s Session) (Session, []Reply) {
	s.Reset()
	s.State = StateAwaitGuide
	return s, []Reply{HTML(greetingText, guideKeyboard...)}
}

func (m *Machine) unrecognized(s Session) (Session, []Reply) {
	s, start := m.Start(s)
	return s, append([]Reply{HTML(unrecognizedText, LabelRestart)}, start...)
}

func (m *Machine) onGuide(s Session, text string) (Session, []Reply) {
	switch text {
	case LabelAudio:
		return m.sectionMenu(s, GuideAudio, text)
	case LabelText:
		return m.sectionMenu(s, GuideText, text)
	case LabelVideo:
		s.Guide = GuideVideo
		s.Section = SectionUnset
		return m.listing(s, false)
	}
	return m.unrecognized(s)
}

func (m *Machine) sectionMenu(s Session, guide Guide, label string) (Session, []Reply) {
	s.Guide = guide
	s.Section = SectionUnset
	s.State = StateAwaitSection
	return s, []Reply{HTML(fmt.Sprintf(sectionMenuText, label), sectionKeyboard...)}
}

func (m *Machine) onSection(s Session, text string) (Session, []Reply) {
	switch text {
	case LabelBack:
		return m.Start(s)
	case LabelIntro:
		s.Section = SectionIntro
		return m.intro(s)
	case LabelArcades:
		s.Section = SectionArcade
	case LabelNPA:
		s.Section = SectionNPA
	case LabelPinballs:
		s.Section = SectionPinball
	default:
		return m.unrecognized(s)
	}
	return m.listing(s, true)
}

func (m *Machine) onExhibit(s Session, text string) (Session, []Reply) {
	if text == LabelBack {
		return m.Start(s)
	}
	for _, name := range m.listed(s) {
		if name != text {
			continue
		}
		exhibit, err := m.catalog.Find(name)
		if err != nil {
			break
		}
		s.State = StateAwaitBack
		return s, []Reply{m.exhibitReply(s.Guide, exhibit)}
	}
	s, listing := m.listing(s, false)
	return s, append([]Reply{HTML(unknownExhibitText)}, listing...)
}

func (m *Machine) onBack(s Session, text string) (Session, []Reply) {
	switch text {
	case LabelBack:
		return m.Start(s)
	case LabelBackToList:
		rebuilt := Session{Guide: s.Guide, Section: s.Section, LastText: s.LastText}
		if !m.listable(rebuilt) {
			return m.Start(s)
		}
		return m.listing(rebuilt, false)
	}
	return m.unrecognized(s)
}

func (m *Machine) intro(s Session) (Session, []Reply) {
	s.State = StateAwaitBack
	intro, err := m.catalog.Intro()
	if err != nil {
		return s, []Reply{HTML(noIntroText, LabelBack)}
	}
	if s.Guide == GuideAudio {
		if intro.AudioGuide == "" {
			return s, []Reply{HTML(fmt.Sprintf(noAudioText, html.EscapeString(intro.Name)), LabelBack)}
		}
		return s, []Reply{Voice(intro.AudioGuide, LabelBack)}
	}
	return s, []Reply{HTML(intro.TextGuide, LabelBack)}
}

// listing shows the exhibits of the current section or the video listing.
// The preamble is sent only when the section is entered from its menu.
func (m *Machine) listing(s Session, preamble bool) (Session, []Reply) {
	s.State = StateAwaitExhibit
	keyboard := append(m.listed(s), LabelBack)

	var replies []Reply
	if preamble && s.Guide != GuideVideo {
		section := strings.ToLower(sectionLabel(s.Section))
		replies = append(replies, HTML(fmt.Sprintf(sectionPreambleText, section, section)))
	}
	replies = append(replies, HTML(listingText(s), keyboard...))
	return s, replies
}

func (m *Machine) listable(s Session) bool {
	if s.Guide == GuideVideo {
		return true
	}
	if s.Guide == GuideUnset {
		return false
	}
	_, ok := s.Section.Kind()
	return ok
}

// listed returns the exhibit names the user can currently pick from.
func (m *Machine) listed(s Session) []string {
	if s.Guide == GuideVideo {
		return m.catalog.NamesWithVideo()
	}
	kind, ok := s.Section.Kind()
	if !ok {
		return nil
	}
	return m.catalog.NamesByKind(kind)
}

func (m *Machine) exhibitReply(guide Guide, e content.Exhibit) Reply {
	name := html.EscapeString(e.Name)
	switch guide {
	case GuideAudio:
		if e.AudioGuide == "" {
			return HTML(fmt.Sprintf(noAudioText, name), LabelBackToList)
		}
		return Voice(e.AudioGuide, LabelBackToList)
	case GuideVideo:
		return HTML(fmt.Sprintf(videoContentText, name, e.VideoGuide), LabelBackToList)
	default:
		return HTML(fmt.Sprintf(textContentText, name, e.TextGuide), LabelBackToList)
	}
}

func listingText(s Session) string {
	if s.Guide == GuideVideo {
		return videoListingText
	}
	switch s.Section {
	case SectionArcade:
		return arcadesListingText
	case SectionNPA:
		return npaListingText
	default:
		return pinballsListingText
	}
}

func sectionLabel(s Section) string {
	switch s {
	case SectionArcade:
		return LabelArcades
	case SectionNPA:
		return LabelNPA
	case SectionPinball:
		return LabelPinballs
	}
	return LabelIntro
}
