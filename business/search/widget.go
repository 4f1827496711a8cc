package search

import (
	"context"
	"nextGamePoints/domain"
	"unicode/utf8"
)

const minQueryLength = 2

// PlayerFinder is the part of the catalog the widget needs.
type PlayerFinder interface {
	Search(ctx context.Context, query string) ([]domain.Player, error)
	DidYouMean(ctx context.Context, query string, limit int) ([]string, error)
}

// SelectionFunc is notified with the new selection after every pick or clear.
type SelectionFunc func(selected domain.OptionalPlayer)

// Widget implements the search-with-autocomplete behaviour on top of a
// domain.SearchState owned by the caller.
type Widget struct {
	finder   PlayerFinder
	onSelect SelectionFunc
}

func NewWidget(finder PlayerFinder, onSelect SelectionFunc) *Widget {
	return &Widget{finder: finder, onSelect: onSelect}
}

// ChangeQuery stores the new query and recomputes the suggestion list.
func (w *Widget) ChangeQuery(ctx context.Context, st *domain.SearchState, query string) error {
	st.Query = query
	st.DidYouMean = nil

	if utf8.RuneCountInString(query) < minQueryLength {
		st.Suggestions = []domain.Player{}
		st.ShowSuggestions = false
		return nil
	}

	suggestions, err := w.finder.Search(ctx, query)
	if err != nil {
		return err
	}
	st.Suggestions = suggestions
	st.ShowSuggestions = true

	if len(suggestions) == 0 {
		hints, err := w.finder.DidYouMean(ctx, query, 3)
		if err == nil {
			st.DidYouMean = hints
		}
	}
	return nil
}

// Focus re-opens the suggestion list for a query that is long enough. The list
// is recomputed from the current query, which may have been set by Pick.
func (w *Widget) Focus(ctx context.Context, st *domain.SearchState) error {
	if utf8.RuneCountInString(st.Query) < minQueryLength {
		return nil
	}
	return w.ChangeQuery(ctx, st, st.Query)
}

// Pick selects a player and closes the suggestion list.
func (w *Widget) Pick(st *domain.SearchState, player domain.Player) {
	st.Selected = domain.SomePlayer(player)
	st.Query = player.Name
	st.Suggestions = []domain.Player{}
	st.ShowSuggestions = false
	st.DidYouMean = nil
	w.notify(st.Selected)
}

// Clear resets the query and the selection.
func (w *Widget) Clear(st *domain.SearchState) {
	st.Selected = domain.NoPlayer()
	st.Query = ""
	st.Suggestions = []domain.Player{}
	st.ShowSuggestions = false
	st.DidYouMean = nil
	w.notify(st.Selected)
}

func (w *Widget) notify(selected domain.OptionalPlayer) {
	if w.onSelect != nil {
		w.onSelect(selected)
	}
}
