package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-exodus/exodus"
)

// mesh is the YAML mesh description.
type mesh struct {
	Title      string      `yaml:"title"`
	Dimensions int         `yaml:"dimensions"`
	Coords     coordinates `yaml:"coordinates"`
	Blocks     []block     `yaml:"blocks"`
	SideSets   []sideSet   `yaml:"side_sets"`
	Info       []string    `yaml:"info"`
	Time       *float64    `yaml:"time"`
}

type coordinates struct {
	X []float64 `yaml:"x"`
	Y []float64 `yaml:"y"`
	Z []float64 `yaml:"z"`
}

type block struct {
	ID           int64   `yaml:"id"`
	ElemType     string  `yaml:"elem_type"`
	Name         string  `yaml:"name"`
	NodesPerElem int     `yaml:"nodes_per_elem"`
	Connectivity []int32 `yaml:"connectivity"`
}

type sideSet struct {
	ID       int64   `yaml:"id"`
	Name     string  `yaml:"name"`
	Elements []int32 `yaml:"elements"`
	Sides    []int32 `yaml:"sides"`
}

func loadMesh(path string) (*mesh, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m mesh
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if m.Dimensions == 0 {
		m.Dimensions = 3
	}
	for i, b := range m.Blocks {
		if b.NodesPerElem < 1 {
			return nil, fmt.Errorf("block %d: nodes_per_elem must be positive", b.ID)
		}
		if len(b.Connectivity)%b.NodesPerElem != 0 {
			return nil, fmt.Errorf("block %d: connectivity length %d is not a multiple of %d",
				b.ID, len(m.Blocks[i].Connectivity), b.NodesPerElem)
		}
	}
	return &m, nil
}

func (m *mesh) nodeCount() int {
	return len(m.Coords.X)
}

func (m *mesh) elemCount() int {
	total := 0
	for _, b := range m.Blocks {
		total += len(b.Connectivity) / b.NodesPerElem
	}
	return total
}

func writeMesh(m *mesh, path string, wordSize int, logger *log.Logger) error {
	f, err := exodus.Create(path, exodus.CreateParams{
		Title:       m.Title,
		NumDims:     m.Dimensions,
		NumNodes:    m.nodeCount(),
		NumElems:    m.elemCount(),
		NumBlocks:   len(m.Blocks),
		NumSideSets: len(m.SideSets),
	}, exodus.WithWordSize(wordSize), exodus.WithLogger(logger))
	if err != nil {
		return err
	}
	defer f.Close()

	if m.nodeCount() > 0 {
		if err := f.PutCoords(m.Coords.X, m.Coords.Y, m.Coords.Z); err != nil {
			return err
		}
	}

	for _, b := range m.Blocks {
		elems := len(b.Connectivity) / b.NodesPerElem
		if err := f.PutElemBlockInfo(b.ID, b.ElemType, elems, b.NodesPerElem, 0); err != nil {
			return err
		}
		if err := f.PutElemConnectivity(b.ID, b.Connectivity, 0, 0); err != nil {
			return err
		}
		if b.Name != "" {
			if err := f.PutElemBlockName(b.ID, b.Name); err != nil {
				return err
			}
		}
	}

	for _, s := range m.SideSets {
		if err := f.PutSideSetParams(s.ID, len(s.Elements), 0); err != nil {
			return err
		}
		if err := f.PutSideSet(s.ID, s.Elements, s.Sides); err != nil {
			return err
		}
		if s.Name != "" {
			if err := f.PutSideSetName(s.ID, s.Name); err != nil {
				return err
			}
		}
	}

	if err := f.PutInfoRecords(m.Info); err != nil {
		return err
	}
	if m.Time != nil {
		if err := f.PutTime(1, *m.Time); err != nil {
			return err
		}
	}

	return f.Close()
}
