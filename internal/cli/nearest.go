package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taro_model/pkg/model"
	"taro_model/pkg/spatial"
)

func newNearestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nearest <model-file> <lat> <lon>",
		Short: "Resolve a coordinate to the nearest graph node",
		Args:  cobra.ExactArgs(3),
		RunE: func(c *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("bad latitude %q: %w", args[1], err)
			}
			lon, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("bad longitude %q: %w", args[2], err)
			}
			return runNearest(args[0], lat, lon)
		},
	}
}

func runNearest(path string, lat, lon float64) error {
	m, err := model.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	idx, err := spatial.NewIndex(m.Topology)
	if err != nil {
		return fmt.Errorf("build spatial index: %w", err)
	}

	node, meters, err := idx.Nearest(lat, lon)
	if err != nil {
		return err
	}

	nodeLat, nodeLon := m.Topology.Coordinate(node)
	fmt.Printf("node:     %d\n", node)
	fmt.Printf("position: %.6f, %.6f\n", nodeLat, nodeLon)
	fmt.Printf("distance: %.1f m\n", meters)

	switch {
	case m.SortedIDs != nil:
		ext, err := m.SortedIDs.ExternalID(int(node))
		if err == nil {
			fmt.Printf("external: %d\n", ext)
		}
	case m.Mapping != nil:
		ext, err := m.Mapping.ToExternal(int(node))
		if err == nil {
			fmt.Printf("external: %s\n", ext)
		}
	}
	return nil
}
