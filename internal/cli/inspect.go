package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taro_model/pkg/model"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model-file>",
		Short: "Print statistics for a serialized model",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func runInspect(path string) error {
	m, err := model.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read model: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fmt.Printf("file:       %s (%d bytes)\n", path, info.Size())
	fmt.Printf("nodes:      %d\n", m.Topology.NumNodes)
	fmt.Printf("edges:      %d\n", m.Topology.NumEdges)

	switch {
	case m.SortedIDs != nil:
		fmt.Printf("id index:   sorted int64 (%d entries)\n", m.SortedIDs.Len())
	case m.Mapping != nil:
		fmt.Printf("id index:   string mapping (%d entries)\n", m.Mapping.Size())
	default:
		fmt.Println("id index:   none")
	}

	if m.Landmarks != nil {
		fmt.Printf("landmarks:  %d\n", m.Landmarks.Count())
	} else {
		fmt.Println("landmarks:  none")
	}
	if m.TurnCosts != nil {
		fmt.Printf("turn costs: %d entries\n", m.TurnCosts.Len())
	} else {
		fmt.Println("turn costs: none")
	}

	var isolated uint32
	for n := uint32(0); n < m.Topology.NumNodes; n++ {
		if m.Topology.Degree(n) == 0 {
			isolated++
		}
	}
	fmt.Printf("zero-degree nodes: %d\n", isolated)
	return nil
}
