package static

import (
	"context"
	"fmt"
	"nextGamePoints/domain"
)

var defaultPlayers = []domain.Player{
	{ID: "1", Name: "LeBron James", Team: "LAL", Position: domain.PositionSmallForward},
	{ID: "2", Name: "Stephen Curry", Team: "GSW", Position: domain.PositionPointGuard},
	{ID: "3", Name: "Kevin Durant", Team: "PHX", Position: domain.PositionSmallForward},
	{ID: "4", Name: "Giannis Antetokounmpo", Team: "MIL", Position: domain.PositionPowerForward},
	{ID: "5", Name: "Jayson Tatum", Team: "BOS", Position: domain.PositionSmallForward},
	{ID: "6", Name: "Luka Dončić", Team: "DAL", Position: domain.PositionPointGuard},
	{ID: "7", Name: "Joel Embiid", Team: "PHI", Position: domain.PositionCenter},
	{ID: "8", Name: "Nikola Jokić", Team: "DEN", Position: domain.PositionCenter},
	{ID: "9", Name: "Damian Lillard", Team: "MIL", Position: domain.PositionPointGuard},
	{ID: "10", Name: "Ben Simmons", Team: "BKN", Position: domain.PositionPointGuard},
	{ID: "11", Name: "Anthony Davis", Team: "LAL", Position: domain.PositionPowerForward},
	{ID: "12", Name: "Kawhi Leonard", Team: "LAC", Position: domain.PositionSmallForward},
}

// CatalogRepository serves the built-in player list. Order is preserved on every read.
type CatalogRepository struct {
	players []domain.Player
	byID    map[string]domain.Player
}

func NewCatalogRepository() *CatalogRepository {
	repo, err := NewCatalogRepositoryWith(defaultPlayers)
	if err != nil {
		panic(err)
	}
	return repo
}

// NewCatalogRepositoryWith builds a catalog from an explicit list, rejecting
// duplicate ids and malformed entries.
func NewCatalogRepositoryWith(players []domain.Player) (*CatalogRepository, error) {
	byID := make(map[string]domain.Player, len(players))
	for _, p := range players {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("invalid catalog entry %+v", p)
		}
		if len(p.Team) != 3 {
			return nil, fmt.Errorf("invalid team code %q for player %s", p.Team, p.ID)
		}
		if !p.Position.Valid() {
			return nil, fmt.Errorf("invalid position %q for player %s", p.Position, p.ID)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player id %s", p.ID)
		}
		byID[p.ID] = p
	}

	list := make([]domain.Player, len(players))
	copy(list, players)

	return &CatalogRepository{players: list, byID: byID}, nil
}

func (r *CatalogRepository) FindAll(ctx context.Context) ([]domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make([]domain.Player, len(r.players))
	copy(out, r.players)
	return out, nil
}

func (r *CatalogRepository) FindByID(ctx context.Context, id string) (domain.Player, error) {
	if err := ctx.Err(); err != nil {
		return domain.Player{}, fmt.Errorf("context error: %w", err)
	}

	p, ok := r.byID[id]
	if !ok {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return p, nil
}
