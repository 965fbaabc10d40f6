package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/halo/components"
)

// ParticleRecord is one particle row of a swarm snapshot.
type ParticleRecord struct {
	Ring   int     `csv:"ring"`
	Index  int     `csv:"index"`
	Global int     `csv:"global"`
	X      float64 `csv:"x"`
	Y      float64 `csv:"y"`
	Z      float64 `csv:"z"`
	R      float64 `csv:"r"`
	G      float64 `csv:"g"`
	B      float64 `csv:"b"`
}

// PointRecord is one sampled surface point.
type PointRecord struct {
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	Z     float64 `csv:"z"`
}

// AppendSwarm appends one ring's particles to recs.
func AppendSwarm(recs []ParticleRecord, slot components.RingSlot, swarm *components.Swarm) []ParticleRecord {
	for i, p := range swarm.Positions {
		c := swarm.Colors[i]
		recs = append(recs, ParticleRecord{
			Ring:   slot.Index,
			Index:  i,
			Global: slot.Offset + i,
			X:      p.X,
			Y:      p.Y,
			Z:      p.Z,
			R:      c.R,
			G:      c.G,
			B:      c.B,
		})
	}
	return recs
}

// PointRecords converts points into CSV rows.
func PointRecords(points []r3.Vec) []PointRecord {
	recs := make([]PointRecord, len(points))
	for i, p := range points {
		recs[i] = PointRecord{Index: i, X: p.X, Y: p.Y, Z: p.Z}
	}
	return recs
}

// WriteCSV marshals records (a slice of tagged structs) to w with a header.
func WriteCSV(w io.Writer, records any) error {
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteCSVFile creates path and writes records to it.
func WriteCSVFile(path string, records any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPoints parses a points CSV written by WriteCSV.
func ReadPoints(r io.Reader) ([]r3.Vec, error) {
	var recs []PointRecord
	if err := gocsv.Unmarshal(r, &recs); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	pts := make([]r3.Vec, len(recs))
	for i, rec := range recs {
		pts[i] = r3.Vec{X: rec.X, Y: rec.Y, Z: rec.Z}
	}
	return pts, nil
}
