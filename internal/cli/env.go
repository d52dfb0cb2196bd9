package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/syssam/layergen"
	"github.com/syssam/layergen/config"
	"github.com/syssam/layergen/schema"
)

// env is the loaded configuration and logger shared by the commands.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log}, nil
}

// open opens the snapshot at path when given, otherwise the configured
// database.
func (e *env) open(ctx context.Context, path string) (*layergen.Session, error) {
	if path != "" {
		return layergen.OpenSnapshot(e.cfg, e.log, path)
	}
	return layergen.Open(ctx, e.cfg, e.log)
}

// parseStructures parses a comma-separated storage structure filter.
func parseStructures(s string) ([]schema.StorageStructure, error) {
	var out []schema.StorageStructure
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		st, err := schema.ParseStorageStructure(part)
		if err != nil {
			return nil, fmt.Errorf("--structure: %w", err)
		}
		out = append(out, st)
	}
	return out, nil
}
