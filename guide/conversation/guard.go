package conversation

// IsDuplicate reports whether text repeats the last accepted text of the
// session. Navigation labels are never duplicates. Any accepted text,
// navigation included, becomes the new LastText.
func IsDuplicate(s *Session, text string) bool {
	if !isNavigation(text) && text == s.LastText {
		return true
	}
	s.LastText = text
	return false
}
