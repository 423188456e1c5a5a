package profile

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/conn-castle/steward/internal/config"
	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/platform"
)

// Connect builds the platform client for one profile.
type Connect func(cfg config.ProfileConfig) (platform.Client, error)

// Select returns the named profiles of cfg in the order given, or every
// profile when names is empty.
func Select(cfg *config.Config, names []string) ([]config.ProfileConfig, error) {
	if len(names) == 0 {
		return append([]config.ProfileConfig{}, cfg.Profiles...), nil
	}
	out := make([]config.ProfileConfig, 0, len(names))
	for _, name := range names {
		p, ok := cfg.Profile(name)
		if !ok {
			return nil, fmt.Errorf(messages.ProfileNotConfiguredFmt, name)
		}
		out = append(out, p)
	}
	return out, nil
}

// LoadAll loads profiles concurrently with at most limit in flight. Results
// keep the order of cfgs. The first failure cancels the remaining loads.
func LoadAll(ctx context.Context, cfgs []config.ProfileConfig, connect Connect, limit int, logger logr.Logger) ([]*Profile, error) {
	out := make([]*Profile, len(cfgs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, cfg := range cfgs {
		g.Go(func() error {
			client, err := connect(cfg)
			if err != nil {
				return err
			}
			p, err := Load(gctx, cfg, client, logger)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
