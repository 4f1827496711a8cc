package main

import (
	"github.com/alecthomas/kong"
)

type globalCmd struct {
	Backend     string  `help:"Prediction backend (mock or http)." enum:"mock,http" default:"mock" env:"PREDICTOR_BACKEND"`
	URL         string  `help:"Base URL of a remote prediction backend." env:"PREDICTOR_URL"`
	Username    string  `help:"Basic auth user for the remote backend." env:"PREDICTOR_BASIC_AUTH_USERNAME"`
	Password    string  `help:"Basic auth password for the remote backend." env:"PREDICTOR_BASIC_AUTH_PASSWORD"`
	FailureRate float64 `help:"Failure probability of the mock backend." default:"0.1" env:"MOCK_FAILURE_RATE"`
	Seed        uint64  `help:"Seed for the mock backend, 0 picks one from the clock." default:"0" env:"MOCK_SEED"`
	NoProgress  bool    `help:"Do not show the spinner while waiting."`
}

var CLI struct {
	globalCmd

	Players playersCmd `cmd:"" help:"List every player in the catalog."`
	Search  searchCmd  `cmd:"" help:"Search players by name."`
	Predict predictCmd `cmd:"" help:"Predict next game points for a player."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("predictctl"),
		kong.Description("Next Game Points Predictor from the command line."),
	)
	err := ctx.Run(&CLI.globalCmd)
	ctx.FatalIfErrorf(err)
}
