package config

import (
	"flag"
	"fmt"
)

// Flags are the command-line overrides shared by spritemesh subcommands.
// Only flags set explicitly on the command line override the config file.
type Flags struct {
	fs *flag.FlagSet

	config    *string
	debug     *bool
	threshold *int
	meshType  *string
	collider  *string
	policy    *string
	maxBoxes  *int
	minArea   *int
	merge     *float64
	edges     *bool
	backside  *bool
	ppu       *float64
	depth     *float64
	magenta   *bool
	frame     *int
	format    *string
	out       *string
	workers   *int
}

// RegisterFlags defines the override flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:        fs,
		config:    fs.String("config", "", "Path to config file (.yaml or .toml)"),
		debug:     fs.Bool("debug", false, "Enable debug logging"),
		threshold: fs.Int("threshold", 0, "Alpha threshold 1-255"),
		meshType:  fs.String("mesh", "", "Mesh type: flat2d or full3d"),
		collider:  fs.String("collider", "", "Collider: none, mesh, aabb or boxes"),
		policy:    fs.String("policy", "", "Box policy: max_count or min_area"),
		maxBoxes:  fs.Int("max-boxes", 0, "Maximum number of boxes (max_count)"),
		minArea:   fs.Int("min-area", 0, "Smallest box area in px² (min_area)"),
		merge:     fs.Float64("merge", 0, "Merge outline points closer than this many pixels"),
		edges:     fs.Bool("edges", false, "Create side edges (flat2d)"),
		backside:  fs.Bool("backside", false, "Create backside plane (flat2d)"),
		ppu:       fs.Float64("ppu", 0, "Pixels per world unit"),
		depth:     fs.Float64("depth", 0, "Depth in world units"),
		magenta:   fs.Bool("magenta", false, "Treat magenta pixels as transparent"),
		frame:     fs.Int("frame", 0, "Frame of an .spr sprite sheet"),
		format:    fs.String("format", "", "Export format: glb, gltf or obj"),
		out:       fs.String("out", "", "Output directory"),
		workers:   fs.Int("workers", 0, "Parallel batch workers"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return *f.config
}

// apply copies explicitly set flags onto cfg.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}

	var err error
	f.fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		b := &cfg.Build
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "threshold":
			b.AlphaThreshold = *f.threshold
		case "mesh":
			err = b.MeshType.UnmarshalText([]byte(*f.meshType))
		case "collider":
			err = b.ColliderType.UnmarshalText([]byte(*f.collider))
		case "policy":
			err = b.BoxPolicy.UnmarshalText([]byte(*f.policy))
		case "max-boxes":
			b.MaxNumberBoxes = *f.maxBoxes
		case "min-area":
			b.SmallestBoxArea = *f.minArea
		case "merge":
			b.MergeDistance = float32(*f.merge)
			b.MergeClosePoints = *f.merge > 0
		case "edges":
			b.CreateEdges = *f.edges
		case "backside":
			b.CreateBacksidePlane = *f.backside
		case "ppu":
			b.PixelsPerUnit = float32(*f.ppu)
		case "depth":
			b.Depth = float32(*f.depth)
		case "magenta":
			cfg.Source.MagentaKey = *f.magenta
		case "frame":
			cfg.Source.Frame = *f.frame
		case "format":
			cfg.Output.Format = *f.format
		case "out":
			cfg.Output.Dir = *f.out
		case "workers":
			cfg.Batch.Workers = *f.workers
		}
	})
	if err != nil {
		return fmt.Errorf("applying flags: %w", err)
	}
	return nil
}
