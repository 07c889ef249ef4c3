package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/kayacancode/voice-network/pkg/domain/model/config"
	"github.com/kayacancode/voice-network/pkg/service/embedding"
	"github.com/kayacancode/voice-network/pkg/service/extraction"
	"github.com/kayacancode/voice-network/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

type RecallUseCase struct {
	repo      interfaces.Repository
	extractor extraction.Service
	embedder  embedding.Service
	config    *config.PipelineConfig
	now       func() time.Time
}

func NewRecallUseCase(repo interfaces.Repository, extractor extraction.Service, embedder embedding.Service, cfg *config.PipelineConfig, now func() time.Time) *RecallUseCase {
	return &RecallUseCase{
		repo:      repo,
		extractor: extractor,
		embedder:  embedder,
		config:    cfg,
		now:       now,
	}
}

// Recall answers a query from the most relevant stored memory
func (uc *RecallUseCase) Recall(ctx context.Context, input model.RecallInput) (*model.RecallResult, error) {
	logger := logging.From(ctx)

	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, goerr.Wrap(ErrEmptyQuery, "recall query is empty")
	}

	userID := input.UserID
	if userID == "" {
		userID = uc.config.DefaultUserID
	}

	person, vector, err := uc.resolve(ctx, query, strings.TrimSpace(input.PersonFilter), input.Conversation)
	if err != nil {
		return nil, err
	}

	filter := model.MemoryFilter{
		UserID:    userID,
		PersonKey: model.PersonKey(person),
	}
	matches, err := uc.repo.Memory().Query(ctx, vector, filter, uc.config.TopK)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query memories",
			goerr.V(StageKey, StageQuery),
			goerr.V(model.UserIDKey, userID),
			goerr.V(model.PersonKeyKey, filter.PersonKey))
	}

	ranked := rankMatches(matches, uc.config.RelevanceThreshold, uc.config.TopK)

	logger.Info("memories recalled",
		"user_id", userID,
		"person", filter.PersonKey,
		"candidates", len(matches),
		"relevant", len(ranked),
	)

	if len(ranked) == 0 {
		message, ssml := buildNoMemories(person)
		return &model.RecallResult{
			Success:      false,
			PersonFilter: person,
			Message:      message,
			SSML:         ssml,
			Matches:      []*model.RecallMatch{},
		}, nil
	}

	best := ranked[0]
	recency := recencyPhrase(best.Memory.Timestamp, uc.now())
	message, ssml := buildRecallAnswer(best.Memory.PersonDisplay, best.Memory.Details, recency)

	return &model.RecallResult{
		Success:      true,
		PersonFilter: person,
		Message:      message,
		SSML:         ssml,
		Best:         best,
		Matches:      ranked,
	}, nil
}

// resolve determines the person filter and embeds the query. Without an
// explicit filter, name extraction runs alongside the embedding call. Only
// an embedding failure fails the recall.
func (uc *RecallUseCase) resolve(ctx context.Context, query, override string, state *model.ConversationState) (string, []float32, error) {
	if override != "" {
		vector, err := uc.embedder.Embed(ctx, query)
		if err != nil {
			return "", nil, goerr.Wrap(err, "failed to embed query", goerr.V(StageKey, StageEmbed))
		}
		return override, vector, nil
	}

	var (
		person string
		vector []float32
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		person = uc.extractor.ExtractPersonName(egCtx, query, state)
		return nil
	})
	eg.Go(func() error {
		v, err := uc.embedder.Embed(egCtx, query)
		if err != nil {
			return goerr.Wrap(err, "failed to embed query", goerr.V(StageKey, StageEmbed))
		}
		vector = v
		return nil
	})
	if err := eg.Wait(); err != nil {
		return "", nil, err
	}

	return person, vector, nil
}

// rankMatches drops matches at or below threshold and orders the rest by
// descending score. Equal scores keep their store order.
func rankMatches(matches []*model.RecallMatch, threshold float64, limit int) []*model.RecallMatch {
	ranked := make([]*model.RecallMatch, 0, len(matches))
	for _, m := range matches {
		if m == nil || m.Memory == nil || m.Score <= threshold {
			continue
		}
		ranked = append(ranked, m)
	}

	slices.SortStableFunc(ranked, func(a, b *model.RecallMatch) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
