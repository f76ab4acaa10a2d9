// Package pipeline orchestrates one monitoring run: fetch raw items per
// account, normalize, cap, persist, and collect the newly discovered posts.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"reels_monitor/internal/model"
	"reels_monitor/internal/normalize"
	"reels_monitor/internal/source"
	"reels_monitor/internal/storage"
)

// Pipeline runs the ingestion sequence for a static list of accounts.
type Pipeline struct {
	source        source.Source
	store         storage.Storage
	log           *slog.Logger
	perAccountCap int
}

// New creates a Pipeline. perAccountCap bounds how many qualifying video
// posts are persisted per account per run, in source order (assumed
// newest-first).
func New(src source.Source, store storage.Storage, perAccountCap int, log *slog.Logger) *Pipeline {
	return &Pipeline{
		source:        src,
		store:         store,
		log:           log,
		perAccountCap: perAccountCap,
	}
}

// Run processes all accounts in order and returns the posts newly inserted
// during this run. Per-account fetch failures are logged and skipped;
// storage failures abort the run, leaving earlier inserts intact.
func (p *Pipeline) Run(ctx context.Context, accounts []string) ([]model.Post, error) {
	var discovered []model.Post
	for _, account := range accounts {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}
		inserted, err := p.processAccount(ctx, account)
		if err != nil {
			return discovered, err
		}
		discovered = append(discovered, inserted...)
	}
	return discovered, nil
}

func (p *Pipeline) processAccount(ctx context.Context, account string) ([]model.Post, error) {
	p.log.Debug("checking account", "account", account)

	items, err := p.source.FetchPosts(ctx, account, p.perAccountCap)
	if err != nil {
		p.log.Error("fetch account", "account", account, "error", err)
		return nil, nil
	}

	var inserted []model.Post
	kept := 0
	for _, item := range items {
		if kept >= p.perAccountCap {
			break
		}
		post, err := normalize.Normalize(item)
		if err != nil {
			p.log.Debug("skip item", "account", account, "reason", err)
			continue
		}
		kept++

		ok, err := p.store.InsertPost(ctx, post)
		if err != nil {
			return inserted, fmt.Errorf("insert post for %s: %w", account, err)
		}
		if ok {
			inserted = append(inserted, *post)
		}
	}

	if len(inserted) > 0 {
		p.log.Info("new posts", "account", account, "count", len(inserted))
	}
	return inserted, nil
}
