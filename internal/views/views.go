package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"
	"nextGamePoints/domain"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// SpinnerInterval is how long each loading message stays on screen.
const SpinnerInterval = 1500 * time.Millisecond

var spinnerMessages = []string{
	"Analyzing player data...",
	"Crunching recent game stats...",
	"Evaluating matchup factors...",
	"Computing confidence interval...",
}

// SpinnerMessage picks the loading message for the time spent loading so far.
func SpinnerMessage(elapsed time.Duration) string {
	if elapsed < 0 {
		elapsed = 0
	}
	i := int(elapsed/SpinnerInterval) % len(spinnerMessages)
	return spinnerMessages[i]
}

// OneDecimal formats every number the dashboard shows.
func OneDecimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func FirstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}

// Page is everything the dashboard template needs for one render.
type Page struct {
	Layout  domain.Layout
	Session *domain.Session
	Toasts  []domain.Toast

	CanPredict     bool
	Loading        bool
	SpinnerMessage string
	Failure        string
	Result         *domain.PredictionResult
	Subject        domain.Player

	// RefreshAfter is the meta refresh delay in seconds, 0 for none.
	RefreshAfter int
}

func NewPage(layout domain.Layout, session *domain.Session, now time.Time, loadingRefresh int) Page {
	p := Page{
		Layout:     layout,
		Session:    session,
		Toasts:     session.ActiveToasts(now),
		CanPredict: session.CanPredict(),
		Subject:    session.Subject,
	}

	switch {
	case session.State.IsLoading():
		p.Loading = true
		p.SpinnerMessage = SpinnerMessage(now.Sub(session.LoadingSince))
	case session.State.IsFailure():
		p.Failure, _ = session.State.FailureMessage()
	case session.State.IsSuccess():
		r, _ := session.State.Result()
		p.Result = &r
	}

	if loadingRefresh < 1 {
		loadingRefresh = 1
	}
	if p.Loading {
		p.RefreshAfter = loadingRefresh
	} else if len(p.Toasts) > 0 {
		p.RefreshAfter = secondsUntilFirstExpiry(p.Toasts, now)
	}

	return p
}

func secondsUntilFirstExpiry(toasts []domain.Toast, now time.Time) int {
	first := toasts[0].ExpiresAt
	for _, t := range toasts[1:] {
		if t.ExpiresAt.Before(first) {
			first = t.ExpiresAt
		}
	}
	secs := int(math.Ceil(first.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

// ErrorPage is rendered for failed HTML requests.
type ErrorPage struct {
	Layout  domain.Layout
	Status  int
	Message string
}

// Renderer plugs the embedded templates into echo.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"oneDecimal": OneDecimal,
		"firstName":  FirstName,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
