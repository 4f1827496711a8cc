package domain

import "time"

// SearchState is the state of the player search widget.
type SearchState struct {
	Query           string         `json:"query"`
	Suggestions     []Player       `json:"suggestions"`
	ShowSuggestions bool           `json:"show_suggestions"`
	DidYouMean      []string       `json:"did_you_mean,omitempty"`
	Selected        OptionalPlayer `json:"selected"`
}

// Session is the page state of one dashboard visitor. It only lives as long as
// the browser session does.
type Session struct {
	ID     string       `json:"id"`
	Search SearchState  `json:"search"`
	State  RequestState `json:"state"`

	// Subject is the player the current state refers to. It can differ from the
	// selection when the user picks someone else after a prediction started.
	Subject Player `json:"subject"`

	// Generation is bumped by every cycle start and every reset. A completion
	// that carries an older generation is discarded.
	Generation   uint64    `json:"generation"`
	LoadingSince time.Time `json:"loading_since,omitempty"`

	Toasts    []Toast   `json:"toasts"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanPredict reports whether the Predict action is enabled.
func (s Session) CanPredict() bool {
	return s.Search.Selected.Present && !s.State.IsLoading()
}

func (s Session) ActiveToasts(now time.Time) []Toast {
	active := make([]Toast, 0, len(s.Toasts))
	for _, t := range s.Toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	return active
}

// PruneToasts drops expired toasts and reports whether anything was removed.
func (s *Session) PruneToasts(now time.Time) bool {
	before := len(s.Toasts)
	s.Toasts = s.ActiveToasts(now)
	return len(s.Toasts) != before
}

// Clone returns a deep copy so stored sessions never share slices with callers.
func (s Session) Clone() Session {
	out := s
	if s.Search.Suggestions != nil {
		out.Search.Suggestions = append([]Player(nil), s.Search.Suggestions...)
	}
	if s.Search.DidYouMean != nil {
		out.Search.DidYouMean = append([]string(nil), s.Search.DidYouMean...)
	}
	if s.Toasts != nil {
		out.Toasts = append([]Toast(nil), s.Toasts...)
	}
	return out
}
