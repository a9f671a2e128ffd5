package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/spritemesh/internal/build"
	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/config"
	"github.com/Faultbox/spritemesh/internal/export"
	"github.com/Faultbox/spritemesh/internal/logger"
	"github.com/Faultbox/spritemesh/internal/outline"
	"github.com/Faultbox/spritemesh/internal/sprite"
	"github.com/Faultbox/spritemesh/internal/watch"
)

// setup parses args, loads the merged configuration and starts logging.
func setup(fs *flag.FlagSet, args []string) (*config.Config, error) {
	flags := config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, err
	}
	if err := logger.InitFromConfig(cfg.Logging); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, nil
}

func loadOptions(cfg *config.Config) sprite.LoadOptions {
	return sprite.LoadOptions{MagentaKey: cfg.Source.MagentaKey, Frame: cfg.Source.Frame}
}

func targetName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// outputPath places name.<format> in the configured output directory.
func outputPath(cfg *config.Config, name string) (string, error) {
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output.Dir, name+"."+string(format)), nil
}

func printResult(name string, res build.Result) {
	if !res.Success {
		fmt.Printf("%-24s FAILED  %-30s %v\n", name, res.Kind, res.Err)
		return
	}
	fmt.Printf("%-24s ok      %5d verts %5d tris %3d boxes %3d islands  %v\n",
		name, res.VertexCount, res.TriangleCount, res.BoxCount, res.OutlineCount,
		res.Duration.Round(time.Microsecond))
}

func cmdBuild(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	dump := fs.Bool("dump", false, "Dump the installed geometry")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return errors.New("usage: spritemesh build [options] <image> [output]")
	}
	path := fs.Arg(0)
	name := targetName(path)

	src, err := sprite.Load(path, loadOptions(cfg))
	if err != nil {
		return err
	}

	target := build.NewTarget(name)
	res := build.NewBuilder().Rebuild(target, src, cfg.Build)
	printResult(name, res)
	if !res.Success {
		return res.Err
	}

	installed := target.Snapshot()
	if *dump {
		spew.Dump(installed)
	}

	out := fs.Arg(1)
	if out == "" {
		if out, err = outputPath(cfg, name); err != nil {
			return err
		}
	}
	if err := export.Save(out, name, installed, export.Options{Colliders: cfg.Output.Colliders}); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}

func cmdInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: spritemesh info [options] <image>")
	}

	src, err := sprite.Load(fs.Arg(0), loadOptions(cfg))
	if err != nil {
		return err
	}
	outlines, err := outline.Extract(src, cfg.Build.AlphaThreshold)
	if err != nil {
		return err
	}

	fmt.Printf("Image:     %s\n", fs.Arg(0))
	fmt.Printf("Size:      %dx%d\n", src.Width(), src.Height())
	fmt.Printf("Solid:     %d px (threshold %d)\n", src.CountSolid(uint8(cfg.Build.AlphaThreshold)), cfg.Build.AlphaThreshold)
	fmt.Printf("Islands:   %d\n", len(outlines))
	fmt.Println()

	for i, o := range outlines {
		line := fmt.Sprintf("  #%-3d %4d points  area %8.1f  perimeter %8.1f", i, len(o), o.Area(), o.Perimeter())
		if cfg.Build.MergeClosePoints {
			line += fmt.Sprintf("  simplified %d", len(outline.Simplify(o, cfg.Build.MergeDistance)))
		}
		fmt.Println(line)
	}
	return nil
}

// sourcesIn lists files in dir whose names match pattern, sorted.
func sourcesIn(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func cmdBatch(args []string) error {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return errors.New("usage: spritemesh batch [options] <dir>")
	}
	paths, err := sourcesIn(fs.Arg(0), cfg.Batch.Pattern)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No files matching %q in %s\n", cfg.Batch.Pattern, fs.Arg(0))
		return nil
	}

	jobs := make([]build.Job, len(paths))
	for i, p := range paths {
		jobs[i] = build.Job{
			Target: build.NewTarget(targetName(p)),
			Path:   p,
			Load:   loadOptions(cfg),
			Config: cfg.Build,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := build.NewBuilder().Batch(ctx, jobs, cfg.Batch.Workers)
	failed := 0
	for i, res := range results {
		name := jobs[i].Target.Name
		printResult(name, res)
		if !res.Success {
			failed++
			continue
		}
		out, perr := outputPath(cfg, name)
		if perr == nil {
			perr = export.Save(out, name, jobs[i].Target.Snapshot(), export.Options{Colliders: cfg.Output.Colliders})
		}
		if perr != nil {
			fmt.Fprintf(os.Stderr, "  export %s: %v\n", name, perr)
			failed++
		}
	}
	fmt.Printf("\n%d built, %d failed\n", len(results)-failed, failed)

	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sprites failed", failed, len(results))
	}
	return nil
}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	debounce := fs.Duration("debounce", 200*time.Millisecond, "Wait this long after the last change")
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if fs.NArg() < 1 {
		return errors.New("usage: spritemesh watch [options] <dir>")
	}
	dir := fs.Arg(0)

	builder := build.NewBuilder()
	targets := make(map[string]*build.Target)
	rebuild := func(path string) {
		name := targetName(path)
		t, ok := targets[name]
		if !ok {
			t = build.NewTarget(name)
			targets[name] = t
		}
		src, err := sprite.Load(path, loadOptions(cfg))
		if err != nil {
			// Editors may still be writing; the next event retries.
			logger.Sugar.Warnf("skipping %s: %v", path, err)
			return
		}
		res := builder.Rebuild(t, src, cfg.Build)
		printResult(name, res)
		if !res.Success {
			return
		}
		out, err := outputPath(cfg, name)
		if err == nil {
			err = export.Save(out, name, t.Snapshot(), export.Options{Colliders: cfg.Output.Colliders})
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "  export %s: %v\n", name, err)
		}
	}

	w, err := watch.New(dir, cfg.Batch.Pattern, *debounce, rebuild)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s for %s (Ctrl+C to stop)\n", dir, cfg.Batch.Pattern)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func cmdProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	cfg, err := setup(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return errors.New("usage: spritemesh probe [options] <image> <x> <y>")
	}
	x, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("bad x: %w", err)
	}
	y, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		return fmt.Errorf("bad y: %w", err)
	}

	src, err := sprite.Load(fs.Arg(0), loadOptions(cfg))
	if err != nil {
		return err
	}
	target := build.NewTarget(targetName(fs.Arg(0)))
	res := build.NewBuilder().Rebuild(target, src, cfg.Build)
	if !res.Success {
		return res.Err
	}

	col := target.Snapshot().Collider
	if col == nil || len(col.Rects) == 0 {
		return fmt.Errorf("collider %s has no boxes to probe", cfg.Build.ColliderType)
	}
	i := collider.Probe(col, src.Width(), src.Height(), x, y)
	if i < 0 {
		fmt.Printf("(%d, %d): no box\n", x, y)
		return nil
	}
	r, b := col.Rects[i], col.Boxes[i]
	fmt.Printf("(%d, %d): box %d  px [%d,%d %dx%d]  center %v size %v\n",
		x, y, i, r.X, r.Y, r.W, r.H, b.Center, b.Size)
	return nil
}
