package sourceref

import (
	"context"
	"strings"

	"launchdash"
)

type Resolver interface {
	ResolveByRef(ctx context.Context, sourceRef string) (launchdash.SourceConfig, error)
}

type Store interface {
	GetSource(ctx context.Context, sourceRef string) (launchdash.SourceConfig, error)
}

type resolver struct {
	store Store
}

func NewResolver(store Store) Resolver {
	return &resolver{store: store}
}

func (r *resolver) ResolveByRef(ctx context.Context, sourceRef string) (launchdash.SourceConfig, error) {
	if strings.TrimSpace(sourceRef) == "" {
		return launchdash.SourceConfig{}, ErrInvalidInput
	}
	if r.store == nil {
		return launchdash.SourceConfig{}, ErrNotConfigured
	}
	return r.store.GetSource(ctx, sourceRef)
}

// ConfigStore serves sources declared in the config file's sources map.
type ConfigStore map[string]launchdash.SourceConfig

func (s ConfigStore) GetSource(ctx context.Context, sourceRef string) (launchdash.SourceConfig, error) {
	cfg, ok := s[strings.ToLower(sourceRef)]
	if !ok {
		return launchdash.SourceConfig{}, ErrNotFound
	}
	return cfg, nil
}
