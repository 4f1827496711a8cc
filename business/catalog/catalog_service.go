package catalog

import (
	"context"
	"fmt"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"nextGamePoints/pkg/metrics"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinQueryLength is the shortest query that produces suggestions.
const MinQueryLength = 2

const (
	defaultDidYouMeanLimit = 3
	similarityThreshold    = 0.6
)

// CatalogRepository contract interface
type CatalogRepository interface {
	FindAll(ctx context.Context) ([]domain.Player, error)
	FindByID(ctx context.Context, id string) (domain.Player, error)
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	players, err := s.repo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to list players", err)
		return nil, err
	}
	return players, nil
}

func (s *CatalogService) GetPlayer(ctx context.Context, id string) (domain.Player, error) {
	if id == "" {
		return domain.Player{}, domain.ErrPlayerNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// Search returns the catalog entries whose name contains query, ignoring case,
// in catalog order. Queries shorter than MinQueryLength match nothing.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.Player, error) {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.Player{}, nil
	}

	players, err := s.repo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load catalog for search", err)
		return nil, fmt.Errorf("failed to search players: %w", err)
	}

	needle := strings.ToLower(query)
	matches := make([]domain.Player, 0, len(players))
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matches = append(matches, p)
		}
	}

	metrics.PlayerSearchTotal.WithLabelValues(searchOutcome(matches)).Inc()

	return matches, nil
}

// DidYouMean proposes up to limit catalog names close to query. It is meant for
// queries that matched nothing, so it tolerates accents and small typos.
func (s *CatalogService) DidYouMean(ctx context.Context, query string, limit int) ([]string, error) {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, nil
	}
	if limit <= 0 {
		limit = defaultDidYouMeanLimit
	}

	players, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) == limit {
			break
		}
		out = append(out, r.Target)
	}
	if len(out) > 0 {
		return out, nil
	}

	// nothing matched as a subsequence, fall back to edit distance
	type scored struct {
		name  string
		score float64
	}
	var nearby []scored
	for _, name := range names {
		if sim := bestSimilarity(query, name); sim >= similarityThreshold {
			nearby = append(nearby, scored{name: name, score: sim})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].score > nearby[j].score })

	for _, c := range nearby {
		if len(out) == limit {
			break
		}
		out = append(out, c.name)
	}
	return out, nil
}

// Resolve maps a free-text player name onto a catalog entry: exact name first,
// then a unique substring match, then the closest fuzzy match.
func (s *CatalogService) Resolve(ctx context.Context, name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrPlayerNotFound
	}

	players, err := s.repo.FindAll(ctx)
	if err != nil {
		return domain.Player{}, err
	}

	for _, p := range players {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}

	matches, err := s.Search(ctx, name)
	if err != nil {
		return domain.Player{}, err
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return domain.Player{}, fmt.Errorf("%w: %q", domain.ErrPlayerNotFound, name)
	}
	sort.Sort(ranks)
	return players[ranks[0].OriginalIndex], nil
}

func bestSimilarity(query, name string) float64 {
	q := strings.ToLower(query)
	best := similarity(q, strings.ToLower(name))
	for _, part := range strings.Fields(name) {
		if sim := similarity(q, strings.ToLower(part)); sim > best {
			best = sim
		}
	}
	return best
}

func similarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/float64(maxLen)
}

func searchOutcome(matches []domain.Player) string {
	if len(matches) == 0 {
		return "empty"
	}
	return "hit"
}
