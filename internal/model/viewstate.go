package model

// ViewState is the client-local state behind the users page.
// Users is replaced wholesale by every successful fetch and is never edited in place.
type ViewState struct {
	Users         []User `json:"users"`
	NameInput     string `json:"name_input"`
	EmailInput    string `json:"email_input"`
	IsLoading     bool   `json:"is_loading"`
	StatusMessage string `json:"status_message"`
}

// Clone returns a copy that shares no backing array with s.
func (s ViewState) Clone() ViewState {
	out := s
	if s.Users != nil {
		out.Users = make([]User, len(s.Users))
		copy(out.Users, s.Users)
	}
	return out
}
