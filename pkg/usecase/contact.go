package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/domain/model/config"
	"github.com/kayacancode/voice-network/pkg/service/embedding"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

type ContactUseCase struct {
	repo     interfaces.Repository
	embedder embedding.Service
	config   *config.PipelineConfig
}

func NewContactUseCase(repo interfaces.Repository, embedder embedding.Service, cfg *config.PipelineConfig) *ContactUseCase {
	return &ContactUseCase{
		repo:     repo,
		embedder: embedder,
		config:   cfg,
	}
}

// variationResult is what one query variation found
type variationResult struct {
	query   string
	matches []*model.ContactMatch
	err     error
}

// Search finds people in the user's network matching a spoken description.
// Every query variation is searched; a variation that fails is skipped, and
// the search fails only when all of them do.
func (uc *ContactUseCase) Search(ctx context.Context, input model.ContactSearchInput) (*model.ContactSearchResult, error) {
	logger := logging.From(ctx)

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, goerr.Wrap(ErrEmptyQuery, "contact search query is empty")
	}

	userID := input.UserID
	if userID == "" {
		userID = uc.config.DefaultUserID
	}

	variations := queryVariations(query)
	results := make([]variationResult, len(variations))

	// more candidates per variation leave room for deduplication
	candidates := uc.config.TopK * 2

	var eg errgroup.Group
	for i, variation := range variations {
		eg.Go(func() error {
			results[i] = uc.searchVariation(ctx, variation, userID, candidates)
			return nil
		})
	}
	_ = eg.Wait()

	var (
		succeeded int
		lastErr   error
	)
	for _, r := range results {
		if r.err != nil {
			logger.Warn("contact search variation failed", "variation", r.query, "error", r.err)
			lastErr = r.err
			continue
		}
		succeeded++
	}
	if succeeded == 0 {
		return nil, goerr.Wrap(lastErr, "all contact search variations failed",
			goerr.V(model.UserIDKey, userID),
			goerr.V("variations", len(variations)))
	}

	contacts := mergeContacts(results, uc.config.ContactThreshold, uc.config.TopK)

	logger.Info("contacts searched",
		"user_id", userID,
		"variations", len(variations),
		"found", len(contacts),
	)

	message, ssml := buildContactAnswer(contacts, query)
	return &model.ContactSearchResult{
		Success:  len(contacts) > 0,
		Message:  message,
		SSML:     ssml,
		Contacts: contacts,
	}, nil
}

func (uc *ContactUseCase) searchVariation(ctx context.Context, variation, userID string, topK int) variationResult {
	vector, err := uc.embedder.Embed(ctx, variation)
	if err != nil {
		return variationResult{query: variation, err: goerr.Wrap(err, "failed to embed contact query",
			goerr.V(StageKey, StageEmbed), goerr.V("variation", variation))}
	}

	matches, err := uc.repo.Contact().Query(ctx, vector, userID, topK)
	if err != nil {
		return variationResult{query: variation, err: goerr.Wrap(err, "failed to query contacts",
			goerr.V(StageKey, StageQuery), goerr.V("variation", variation))}
	}

	return variationResult{query: variation, matches: matches}
}

// mergeContacts keeps matches above threshold, one per contact name with its
// best score, ordered by descending score. Equal scores keep the order in
// which variations found them.
func mergeContacts(results []variationResult, threshold float64, limit int) []*model.ContactMatch {
	best := make(map[string]*model.ContactMatch)
	order := make([]string, 0)

	for _, r := range results {
		for _, m := range r.matches {
			if m == nil || m.Contact == nil || m.Score <= threshold {
				continue
			}
			name := m.Contact.Name
			if existing, ok := best[name]; ok {
				if existing.Score >= m.Score {
					continue
				}
			} else {
				order = append(order, name)
			}
			best[name] = &model.ContactMatch{
				Contact: m.Contact,
				Score:   m.Score,
				Query:   r.query,
			}
		}
	}

	merged := make([]*model.ContactMatch, 0, len(order))
	for _, name := range order {
		merged = append(merged, best[name])
	}

	slices.SortStableFunc(merged, func(a, b *model.ContactMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
