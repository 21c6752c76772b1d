package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"launchdash"
	"launchdash/cmd/launchdash/internal/sourceref"
	"launchdash/internal/config"
)

// sourceFactory is swapped in tests.
var sourceFactory = launchdash.NewSource

// resolveSource returns the source named by source_ref, or the inline source
// when no reference is set. References are looked up in the ref store when
// one is configured, otherwise in the sources map.
func resolveSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (launchdash.SourceConfig, error) {
	ref := strings.TrimSpace(cfg.SourceRef)
	if ref == "" {
		return cfg.Source, nil
	}
	var store sourceref.Store = sourceref.ConfigStore(cfg.Sources)
	if cfg.RefStore.DSN != "" {
		pg, err := sourceref.NewPostgresStore(ctx, cfg.RefStore.DSN, []byte(cfg.RefStore.EncryptionKey))
		if err != nil {
			return launchdash.SourceConfig{}, fmt.Errorf("open ref store: %w", err)
		}
		defer pg.Close()
		store = pg
	}
	src, err := sourceref.NewResolver(store).ResolveByRef(ctx, ref)
	if err != nil {
		return launchdash.SourceConfig{}, fmt.Errorf("resolve source %q: %w", ref, err)
	}
	logger.Debug().Str("source_ref", ref).Str("type", src.Type).Msg("resolved source")
	return src, nil
}

// loadTable reads the whole dataset once. Any failure here is fatal to the
// caller: the dashboard has nothing to show without a table.
func loadTable(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*launchdash.Table, error) {
	srcCfg, err := resolveSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	src, err := sourceFactory(srcCfg)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	if tester, ok := src.(launchdash.ConnectionTester); ok {
		if err := tester.TestConnection(ctx); err != nil {
			return nil, fmt.Errorf("connect source: %w", err)
		}
	}
	table, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	logger.Info().
		Str("source", sourceName(srcCfg)).
		Int("rows", table.Len()).
		Int("sites", len(table.Sites())).
		Float64("payload_min", table.MinPayload()).
		Float64("payload_max", table.MaxPayload()).
		Msg("dataset loaded")
	return table, nil
}

func sourceName(cfg launchdash.SourceConfig) string {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	switch typ {
	case "", "csv", "xlsx", "excel":
		if typ == "" {
			typ = "csv"
		}
		return typ + ":" + cfg.Path
	default:
		return typ + ":" + cfg.Host + "/" + cfg.Database
	}
}
