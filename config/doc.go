// Package config loads the layergen configuration from layergen.yaml with
// LAYERGEN_* environment overrides, and turns it into generator options.
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	log, _ := cfg.Logger()
//	g, err := gen.NewGenerator(ctx, src, renderer, out, cfg.Options(log)...)
package config
