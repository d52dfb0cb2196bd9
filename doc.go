// Package layergen turns entity metadata into the source files of a layered
// application. It ties the configuration, the metadata source and the
// generator together:
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	sess, err := layergen.Open(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	kinds, _ := cfg.SelectedKinds()
//	rep, err := sess.Generate(ctx, gen.NewTemplateDir(cfg.Templates), gen.NewDirWriter(cfg.Output), kinds)
//
// OpenSnapshot serves a snapshot file instead of a live database.
//
// The sentinel errors of all packages are re-exported here; ExitCode maps an
// error to the exit status of the layergen command.
package layergen
