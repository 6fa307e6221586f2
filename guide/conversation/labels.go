package conversation

// Button labels and commands recognised by the machine.
const (
	CommandStart = "/start"

	LabelAudio = "Аудиогид"
	LabelText  = "Текстовый гид"
	LabelVideo = "Видеогид"

	LabelIntro    = "Вступление"
	LabelArcades  = "Аркады"
	LabelNPA      = "Неигровые экспонаты"
	LabelPinballs = "Пинболы"

	// LabelBack leaves a menu or content view for the greeting.
	LabelBack = "<<- Вернуться назад"

	// LabelBackToList returns from exhibit content to its listing.
	LabelBackToList = "<<--- Вернуться назад"

	LabelRestart = "Вернуться в начало"
)

var (
	guideKeyboard   = []string{LabelAudio, LabelText, LabelVideo}
	sectionKeyboard = []string{LabelIntro, LabelArcades, LabelNPA, LabelPinballs, LabelBack}
)

func isNavigation(text string) bool {
	switch text {
	case LabelBack, LabelBackToList, LabelRestart:
		return true
	}
	return false
}
