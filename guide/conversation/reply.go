package conversation

// ReplyKind selects how a reply is delivered.
type ReplyKind int

const (
	ReplyHTML ReplyKind = iota
	ReplyVoice
)

func (k ReplyKind) String() string {
	if k == ReplyVoice {
		return "voice"
	}
	return "html"
}

// Reply is one outbound message with its reply keyboard, one label per row.
type Reply struct {
	Kind     ReplyKind
	Text     string
	Path     string
	Keyboard []string
}

// HTML builds an HTML text reply.
func HTML(text string, keyboard ...string) Reply {
	return Reply{Kind: ReplyHTML, Text: text, Keyboard: keyboard}
}

// Voice builds a voice reply sent from a local file.
func Voice(path string, keyboard ...string) Reply {
	return Reply{Kind: ReplyVoice, Path: path, Keyboard: keyboard}
}
