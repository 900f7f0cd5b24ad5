package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taro_model/pkg/edgelist"
	"taro_model/pkg/landmark"
	"taro_model/pkg/model"
	"taro_model/pkg/osm"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	osmPath    string // OSM PBF input
	nodesPath  string // node CSV input (paired with edgesPath)
	edgesPath  string // edge CSV input
	output     string // model output path
	configPath string // optional TOML config

	landmarks  int
	seed       int64
	seedSet    bool // --seed given explicitly; the default value is ambiguous
	maxSettled int
	component  bool

	bboxFromConfig []float64 // [minLat, minLng, maxLat, maxLng], config only
}

func newBuildCmd() *cobra.Command {
	opts := buildOpts{landmarks: 0, seed: 1}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a binary routing model from OSM PBF or CSV inputs",
		Long: `Build compiles a road or transit network into a single binary model file.

Input is either an OSM PBF extract (--osm) or a pair of CSV files
(--nodes and --edges). OSM imports carry a sorted integer id index;
CSV imports carry a string id mapping.

Examples:
  taro build --osm singapore.osm.pbf -o singapore.model
  taro build --nodes stops.csv --edges links.csv -o transit.model
  taro build --osm region.osm.pbf --landmarks 16 -o region.model`,
		RunE: func(c *cobra.Command, args []string) error {
			opts.seedSet = c.Flags().Changed("seed")
			return runBuild(c.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.osmPath, "osm", "", "OSM PBF input file")
	cmd.Flags().StringVar(&opts.nodesPath, "nodes", "", "node CSV input file (id,lat,lon)")
	cmd.Flags().StringVar(&opts.edgesPath, "edges", "", "edge CSV input file (from,to,weight)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "model output path (required)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML build configuration file")
	cmd.Flags().IntVar(&opts.landmarks, "landmarks", opts.landmarks, "number of landmarks to preprocess (0 disables)")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "landmark selection seed")
	cmd.Flags().IntVar(&opts.maxSettled, "max-settled", 0, "per-landmark Dijkstra budget (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.component, "largest-component", false, "keep only the largest weakly connected component")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runBuild(ctx context.Context, opts *buildOpts) error {
	logger := charmlog.FromContext(ctx)

	if opts.configPath != "" {
		cfg, err := loadConfig(opts.configPath)
		if err != nil {
			return err
		}
		applyConfig(opts, cfg)
	}

	m, err := loadInput(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("graph loaded", "nodes", m.Topology.NumNodes, "edges", m.Topology.NumEdges)

	if opts.component {
		prog := newProgress(logger)
		nodes := model.LargestComponent(m.Topology)
		m, err = model.FilterModel(m, nodes)
		if err != nil {
			return fmt.Errorf("extract largest component: %w", err)
		}
		prog.done(fmt.Sprintf("Kept largest component: %d nodes, %d edges", m.Topology.NumNodes, m.Topology.NumEdges))
	}

	if opts.landmarks > 0 {
		prog := newProgress(logger)
		ls, err := landmark.Preprocess(m.Topology, landmark.Config{
			Count:      opts.landmarks,
			Seed:       opts.seed,
			MaxSettled: opts.maxSettled,
		})
		if err != nil {
			return fmt.Errorf("preprocess landmarks: %w", err)
		}
		m.Landmarks = ls
		prog.done(fmt.Sprintf("Preprocessed %d landmarks", ls.Count()))
	}

	if err := model.WriteFile(opts.output, m); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	logger.Info("model written", "path", opts.output)
	return nil
}

// applyConfig fills in options the command line left at their defaults.
func applyConfig(opts *buildOpts, cfg *BuildConfig) {
	if opts.landmarks == 0 {
		opts.landmarks = cfg.Landmarks.Count
	}
	if !opts.seedSet && cfg.Landmarks.Seed != 0 {
		opts.seed = cfg.Landmarks.Seed
	}
	if opts.maxSettled == 0 {
		opts.maxSettled = cfg.Landmarks.MaxSettled
	}
	if !opts.component {
		opts.component = cfg.Graph.LargestComponent
	}
	if opts.bboxFromConfig == nil && len(cfg.Graph.BBox) == 4 {
		opts.bboxFromConfig = cfg.Graph.BBox
	}
}

// loadInput builds an unserialized model from whichever input the flags name.
func loadInput(ctx context.Context, opts *buildOpts) (*model.Model, error) {
	switch {
	case opts.osmPath != "" && (opts.nodesPath != "" || opts.edgesPath != ""):
		return nil, fmt.Errorf("--osm and --nodes/--edges are mutually exclusive")
	case opts.osmPath != "":
		return loadOSM(ctx, opts)
	case opts.nodesPath != "" && opts.edgesPath != "":
		return loadCSV(opts)
	default:
		return nil, fmt.Errorf("need --osm or both --nodes and --edges")
	}
}

func loadOSM(ctx context.Context, opts *buildOpts) (*model.Model, error) {
	f, err := os.Open(opts.osmPath)
	if err != nil {
		return nil, fmt.Errorf("open OSM input: %w", err)
	}
	defer f.Close()

	var parseOpts osm.ParseOptions
	if b := opts.bboxFromConfig; len(b) == 4 {
		parseOpts.BBox = osm.BBox{MinLat: b[0], MinLng: b[1], MaxLat: b[2], MaxLng: b[3]}
	}

	res, err := osm.Parse(ctx, f, parseOpts)
	if err != nil {
		return nil, fmt.Errorf("parse OSM: %w", err)
	}
	return osm.BuildModel(res)
}

func loadCSV(opts *buildOpts) (*model.Model, error) {
	nodes, err := os.Open(opts.nodesPath)
	if err != nil {
		return nil, fmt.Errorf("open nodes: %w", err)
	}
	defer nodes.Close()

	edges, err := os.Open(opts.edgesPath)
	if err != nil {
		return nil, fmt.Errorf("open edges: %w", err)
	}
	defer edges.Close()

	return edgelist.Load(nodes, edges)
}
