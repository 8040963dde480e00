// Command scenec parses, renders and diffs declarative scene sources.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"scenelang/cache"
	"scenelang/config"
	"scenelang/diag"
	"scenelang/diff"
	"scenelang/layout"
	"scenelang/lex"
	"scenelang/misc"
	"scenelang/parse"
	"scenelang/resolve"
	"scenelang/scene"
	"scenelang/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Renderer = cache.NewRendererWithCapacity(env.Cfg.Cache.MaxEntries)
	env.Overwrite = cmd.Bool("overwrite")
	env.OutputDir = cmd.String("outdir")

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	env.RestoreStdLog()

	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	return
}

// Ignore urfave/cli default error handling - cli.Exit() is non-transparent,
// subcommands return regular errors instead.
var errWasHandled bool

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "toolchain for the scene description language",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination output file exists, overwrite it"},
			&cli.StringFlag{Name: "outdir", Usage: "write output files to `DIR` instead of alongside each source file"},
		},
		Commands: []*cli.Command{
			{
				Name:         "parse",
				Usage:        "Parses source file(s) and prints diagnostics",
				OnUsageError: usageErrorHandler,
				Action:       runParse,
				ArgsUsage:    "SOURCE...",
			},
			{
				Name:         "render",
				Usage:        "Renders source file(s) to a serialized scene document",
				OnUsageError: usageErrorHandler,
				Action:       runRender,
				ArgsUsage:    "SOURCE...",
			},
			{
				Name:         "diff",
				Usage:        "Emits a patch stream between two source files",
				OnUsageError: usageErrorHandler,
				Action:       runDiff,
				ArgsUsage:    "OLD NEW",
			},
		},
	}

	var err error
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

// sortedPaths orders a batch of source paths the way a user expects to see
// them listed: "scene2.scl" before "scene10.scl".
func sortedPaths(args cli.Args) []string {
	paths := append([]string{}, args.Slice()...)
	sort.Sort(natural.StringSlice(paths))
	return paths
}

// buildDocument runs one source file through the full lex/parse/resolve/build
// pipeline, collecting diagnostics from every stage along the way.
func buildDocument(path string, log *zap.Logger, lexCfg lex.Config, parseCfg parse.Config, layoutCfg layout.Config) (scene.Document, []diag.Diagnostic, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return scene.Document{}, nil, fmt.Errorf("unable to read '%s': %w", path, err)
	}

	toks := lex.New(string(src), lexCfg, log).Tokenize()
	ast, diags := parse.Parse(toks, parseCfg, log)

	resolved, rdiags := resolve.Resolve(ast, log)
	diags = append(diags, rdiags...)

	doc, bdiags := scene.Build(resolved, layoutCfg)
	diags = append(diags, bdiags...)

	return doc, diags, nil
}

func lexConfigFrom(cfg *config.Config) lex.Config {
	return lex.Config{TabWidth: cfg.Lexer.TabWidth}
}

func parseConfigFrom(cfg *config.Config) parse.Config {
	return parse.Config{MaxNestingDepth: cfg.Lexer.MaxNestingDepth}
}

func layoutConfigFrom(cfg *config.Config) layout.Config {
	return layout.Config{
		DefaultGlyphSize: cfg.Layout.DefaultGlyphSize,
		DefaultPadding:   cfg.Layout.DefaultPadding,
	}
}

// outputName derives a predictable output file name for path, sanitized
// through slug.Make and the teacher's CleanFileName so unicode or spaces in
// the source name never break the destination.
func outputName(env *state.LocalEnv, path, ext string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := config.CleanFileName(slug.Make(base)) + ext
	dir := filepath.Dir(path)
	if len(env.OutputDir) > 0 {
		dir = env.OutputDir
	}
	return filepath.Join(dir, name)
}

func printDiagnostics(log *zap.Logger, path string, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Println(d.String())
	}
	log.Debug("parsed source", zap.String("path", path), zap.Int("diagnostics", len(diags)))
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	for _, path := range sortedPaths(cmd.Args()) {
		_, diags, err := buildDocument(path, env.Log, lexConfigFrom(env.Cfg), parseConfigFrom(env.Cfg), layoutConfigFrom(env.Cfg))
		if err != nil {
			return err
		}
		printDiagnostics(env.Log, path, diags)
	}
	return nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	for _, path := range sortedPaths(cmd.Args()) {
		doc, diags, err := buildDocument(path, env.Log, lexConfigFrom(env.Cfg), parseConfigFrom(env.Cfg), layoutConfigFrom(env.Cfg))
		if err != nil {
			return err
		}
		printDiagnostics(env.Log, path, diags)

		// Warm the fragment cache per element so repeated renders of an
		// unchanged element across a batch reuse prior work.
		for _, el := range doc.Elements {
			env.Renderer.RenderElement(el.Content, func() string { return scene.Serialize(el) })
		}

		out := scene.SerializeDocument(doc)
		dest := outputName(env, path, ".svg")
		if !env.Overwrite {
			if _, err := os.Stat(dest); err == nil {
				return fmt.Errorf("destination '%s' already exists, use --overwrite", dest)
			}
		}
		if err := os.WriteFile(dest, []byte(out), 0644); err != nil {
			return fmt.Errorf("unable to write '%s': %w", dest, err)
		}
		env.Log.Info("rendered", zap.String("source", path), zap.String("destination", dest))

		if env.Rpt != nil {
			stats := env.Renderer.SnapshotStats(doc.RenderID)
			env.Log.Debug("cache stats", zap.String("render_id", stats.RenderID), zap.Int("entries", stats.Entries), zap.Uint32("total_hits", stats.TotalHits), zap.Int("total_bytes", stats.TotalBytes))
		}
	}
	return nil
}

func runDiff(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("diff requires exactly two source paths, got %d", cmd.Args().Len())
	}

	oldPath, newPath := cmd.Args().Get(0), cmd.Args().Get(1)
	lexCfg, parseCfg, layoutCfg := lexConfigFrom(env.Cfg), parseConfigFrom(env.Cfg), layoutConfigFrom(env.Cfg)

	oldDoc, oldDiags, err := buildDocument(oldPath, env.Log, lexCfg, parseCfg, layoutCfg)
	if err != nil {
		return err
	}
	printDiagnostics(env.Log, oldPath, oldDiags)

	newDoc, newDiags, err := buildDocument(newPath, env.Log, lexCfg, parseCfg, layoutCfg)
	if err != nil {
		return err
	}
	printDiagnostics(env.Log, newPath, newDiags)

	result := diff.Diff(oldDoc, newDoc, env.Cfg.Diff.AttrThreshold)

	dest := outputName(env, newPath, ".patch")
	if !env.Overwrite {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("destination '%s' already exists, use --overwrite", dest)
		}
	}
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("unable to create '%s': %w", dest, err)
	}
	defer f.Close()

	writePatchStream(f, result)
	env.Log.Info("diffed", zap.String("old", oldPath), zap.String("new", newPath), zap.String("destination", dest), zap.Int("ops", len(result.Ops)))
	return nil
}

func writePatchStream(w *os.File, result diff.Result) {
	if result.NeedsFullRedraw() {
		fmt.Fprintln(w, "full-redraw")
		return
	}
	for _, op := range result.Ops {
		switch op.Kind {
		case diff.OpAdd:
			fmt.Fprintf(w, "add idx=%d id=%d\n%s\n", op.Idx, op.ID, op.SVG)
		case diff.OpRemove:
			fmt.Fprintf(w, "remove idx=%d id=%d\n", op.Idx, op.ID)
		case diff.OpUpdate:
			if len(op.SVG) > 0 {
				fmt.Fprintf(w, "update id=%d idx=%d\n%s\n", op.ID, op.Idx, op.SVG)
				continue
			}
			fmt.Fprintf(w, "update id=%d idx=%d", op.ID, op.Idx)
			for _, a := range op.Attrs {
				fmt.Fprintf(w, " %s=%s", a.Name, a.Value)
			}
			fmt.Fprintln(w)
		case diff.OpMove:
			fmt.Fprintf(w, "move id=%d from=%d to=%d\n", op.ID, op.From, op.To)
		case diff.OpUpdateDefs:
			fmt.Fprintf(w, "update-defs\n%s\n", op.SVG)
		}
	}
}
