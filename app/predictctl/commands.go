package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"nextGamePoints/business/catalog"
	"nextGamePoints/business/prediction"
	"nextGamePoints/domain"
	"nextGamePoints/internal/repository/predictor"
	"nextGamePoints/internal/repository/static"
	"nextGamePoints/internal/views"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	progressbar "github.com/schollz/progressbar/v3"
)

type playersCmd struct{}

func (p *playersCmd) Run(g *globalCmd) error {
	players, err := newCatalog().ListPlayers(context.Background())
	if err != nil {
		return err
	}
	printPlayers(os.Stdout, players)
	return nil
}

type searchCmd struct {
	Query string `arg:"" help:"At least two characters of a player name."`
}

func (s *searchCmd) Run(g *globalCmd) error {
	ctx := context.Background()
	svc := newCatalog()

	players, err := svc.Search(ctx, s.Query)
	if err != nil {
		return err
	}
	if len(players) > 0 {
		printPlayers(os.Stdout, players)
		return nil
	}

	fmt.Fprintf(os.Stdout, "No players found for %q\n", s.Query)
	hints, err := svc.DidYouMean(ctx, s.Query, 3)
	if err == nil && len(hints) > 0 {
		fmt.Fprintf(os.Stdout, "Did you mean: %s?\n", strings.Join(hints, ", "))
	}
	return nil
}

type predictCmd struct {
	Player  string        `arg:"" help:"Player name, partial names are resolved against the catalog."`
	Timeout time.Duration `help:"Give up after this long." default:"10s"`
}

func (p *predictCmd) Run(g *globalCmd) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.Timeout)
	defer cancel()

	player, err := newCatalog().Resolve(ctx, p.Player)
	if err != nil {
		if errors.Is(err, domain.ErrPlayerNotFound) {
			return fmt.Errorf("no player matches %q", p.Player)
		}
		return err
	}

	backend, err := g.predictor()
	if err != nil {
		return err
	}

	result, err := waitWithSpinner(ctx, !g.NoProgress, fmt.Sprintf("Predicting %s", player.Name), func(ctx context.Context) (domain.PredictionResult, error) {
		return backend.Predict(ctx, player.Name)
	})
	if err != nil {
		return errors.New(domain.UserMessage(err))
	}

	printCard(os.Stdout, player, result)
	return nil
}

func (g *globalCmd) predictor() (prediction.Predictor, error) {
	if g.Backend == "http" {
		if g.URL == "" {
			return nil, errors.New("--url is required for the http backend")
		}
		return predictor.NewHTTPPredictor(predictor.HTTPConfig{
			BaseURL:           g.URL,
			BasicAuthUsername: g.Username,
			BasicAuthPassword: g.Password,
		}), nil
	}

	cfg := prediction.DefaultMockConfig()
	cfg.FailureRate = g.FailureRate
	cfg.Seed = g.Seed
	mock, err := prediction.NewMockPredictor(cfg)
	if err != nil {
		return nil, err
	}
	return mock, nil
}

func newCatalog() *catalog.CatalogService {
	return catalog.NewCatalogService(static.NewCatalogRepository())
}

func waitWithSpinner(ctx context.Context, show bool, description string, fn func(ctx context.Context) (domain.PredictionResult, error)) (domain.PredictionResult, error) {
	type outcome struct {
		result domain.PredictionResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := fn(ctx)
		done <- outcome{r, err}
	}()

	if !show {
		o := <-done
		return o.result, o.err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case o := <-done:
			_ = bar.Finish()
			return o.result, o.err
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func printPlayers(w io.Writer, players []domain.Player) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Name", "Team", "Position"})
	for _, p := range players {
		t.AppendRow(table.Row{p.ID, p.Name, p.Team, p.Position})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func printCard(w io.Writer, player domain.Player, r domain.PredictionResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Next Game Prediction: %s (%s)", player.Name, player.Team)
	t.AppendRow(table.Row{"Points", views.OneDecimal(r.PredictedPoints)})
	t.AppendRow(table.Row{fmt.Sprintf("%d%% Confidence Interval", r.ConfidenceLevel),
		views.OneDecimal(r.ConfidenceInterval.Lower) + " - " + views.OneDecimal(r.ConfidenceInterval.Upper)})
	t.SetStyle(table.StyleLight)
	t.Render()

	fmt.Fprintf(w, "There's a %d%% probability that %s will score between %s and %s points in their next game.\n",
		r.ConfidenceLevel, views.FirstName(player.Name),
		views.OneDecimal(r.ConfidenceInterval.Lower), views.OneDecimal(r.ConfidenceInterval.Upper))
}
