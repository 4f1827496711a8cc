package domain

type Position string

const (
	PositionPointGuard    Position = "PG"
	PositionShootingGuard Position = "SG"
	PositionSmallForward  Position = "SF"
	PositionPowerForward  Position = "PF"
	PositionCenter        Position = "C"
)

func (p Position) Valid() bool {
	switch p {
	case PositionPointGuard, PositionShootingGuard, PositionSmallForward, PositionPowerForward, PositionCenter:
		return true
	}
	return false
}

// Player is an entry of the static catalog. Players are never mutated.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Position Position `json:"position"`
}

// OptionalPlayer carries a player selection that may be empty.
type OptionalPlayer struct {
	Player  Player `json:"player"`
	Present bool   `json:"present"`
}

func SomePlayer(p Player) OptionalPlayer {
	return OptionalPlayer{Player: p, Present: true}
}

func NoPlayer() OptionalPlayer {
	return OptionalPlayer{}
}

func (o OptionalPlayer) Get() (Player, bool) {
	return o.Player, o.Present
}
