// Package edgelist loads a graph from node and edge CSV files. Node ids
// are free-form strings (GTFS stop ids, internal asset tags), so the
// loaded model carries the string id mapping rather than the sorted
// integer index.
//
// Node rows are "id,lat,lon"; edge rows are "from,to,weight". A header
// row is detected and skipped when the first field is not numeric where
// a number is expected.
package edgelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"taro_model/pkg/idmap"
	"taro_model/pkg/model"
)

// Load reads the two CSV streams and assembles a validated model. Every
// edge endpoint must appear in the node file.
func Load(nodes, edges io.Reader) (*model.Model, error) {
	builder := idmap.NewBuilder()

	type coord struct{ lat, lon float32 }
	var coords []coord

	nr := csv.NewReader(nodes)
	nr.FieldsPerRecord = 3
	nr.ReuseRecord = true
	line := 0
	for {
		rec, err := nr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("edgelist: read nodes: %w", err)
		}
		line++

		lat, latErr := strconv.ParseFloat(rec[1], 32)
		lon, lonErr := strconv.ParseFloat(rec[2], 32)
		if latErr != nil || lonErr != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("edgelist: nodes line %d: bad coordinate %q,%q", line, rec[1], rec[2])
		}

		id := builder.GetOrCreate(rec[0])
		if int(id) != len(coords) {
			return nil, fmt.Errorf("edgelist: nodes line %d: duplicate node id %q", line, rec[0])
		}
		coords = append(coords, coord{lat: float32(lat), lon: float32(lon)})
	}
	if len(coords) == 0 {
		return nil, fmt.Errorf("edgelist: node file is empty")
	}

	tb := model.NewTopologyBuilder(uint32(len(coords)))
	for i, c := range coords {
		if err := tb.SetCoordinate(uint32(i), c.lat, c.lon); err != nil {
			return nil, fmt.Errorf("edgelist: node %d: %w", i, err)
		}
	}

	er := csv.NewReader(edges)
	er.FieldsPerRecord = 3
	er.ReuseRecord = true
	line = 0
	for {
		rec, err := er.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("edgelist: read edges: %w", err)
		}
		line++

		weight, werr := strconv.ParseFloat(rec[2], 32)
		if werr != nil {
			if line == 1 {
				continue // header row
			}
			return nil, fmt.Errorf("edgelist: edges line %d: bad weight %q", line, rec[2])
		}

		from, err := builder.ToInternal(rec[0])
		if err != nil {
			return nil, fmt.Errorf("edgelist: edges line %d: unknown node %q", line, rec[0])
		}
		to, err := builder.ToInternal(rec[1])
		if err != nil {
			return nil, fmt.Errorf("edgelist: edges line %d: unknown node %q", line, rec[1])
		}
		if err := tb.AddEdge(from, to, float32(weight)); err != nil {
			return nil, fmt.Errorf("edgelist: edges line %d: %w", line, err)
		}
	}

	top, err := tb.Build()
	if err != nil {
		return nil, fmt.Errorf("edgelist: build topology: %w", err)
	}
	mapping, err := idmap.NewMapping(builder.Export())
	if err != nil {
		return nil, fmt.Errorf("edgelist: finalize mapping: %w", err)
	}
	return &model.Model{Topology: top, Mapping: mapping}, nil
}
