package domain

type UpcomingFeature struct {
	Icon        string
	Title       string
	Description string
}

type ModelStats struct {
	Accuracy        string
	PredictionsMade string
	PlayersTracked  string
}

// Layout is the static chrome around the prediction area.
type Layout struct {
	Title      string
	Tagline    string
	PoweredBy  string
	Headline   string
	Lead       string
	Stats      ModelStats
	ComingSoon []UpcomingFeature
	ProTip     string
	Footer     string
	IdlePrompt string
	SearchHint string
}

func DefaultLayout() Layout {
	return Layout{
		Title:     "Next Game Points Predictor",
		Tagline:   "AI-powered NBA predictions",
		PoweredBy: "Powered by Machine Learning",
		Headline:  "Predict Player Performance",
		Lead: "Get AI-powered predictions for NBA player scoring in their next game. " +
			"Our model analyzes recent performance, matchups, and key factors.",
		Stats: ModelStats{
			Accuracy:        "85.2%",
			PredictionsMade: "12,847",
			PlayersTracked:  "450+",
		},
		ComingSoon: []UpcomingFeature{
			{Icon: "👥", Title: "Player Comparison", Description: "Compare multiple players"},
			{Icon: "📈", Title: "Season Trends", Description: "Historical performance"},
			{Icon: "📊", Title: "Team Analytics", Description: "Team-wide insights"},
			{Icon: "⚙️", Title: "Custom Models", Description: "Personalized predictions"},
		},
		ProTip: "Predictions work best for players with consistent recent playing time. " +
			"Results may vary for injured or irregularly playing athletes.",
		Footer:     "© 2024 Next Game Points Predictor. Data updates in real-time.",
		IdlePrompt: `Select a player and click "Predict" to see AI-powered point predictions`,
		SearchHint: "Search NBA players (e.g., 'ben sim')",
	}
}
