package terrain

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh as a Wavefront OBJ with positions, texture
// coordinates and faces. OBJ indices are 1-based.
func (m *Mesh) WriteOBJ(w io.Writer) error {
	return m.writeOBJ(w, nil)
}

// WriteColoredOBJ is WriteOBJ with a per-vertex colour taken from bands at
// the vertex's height normalized over cfg's height range.
func (m *Mesh) WriteColoredOBJ(w io.Writer, cfg Config, bands ColorBands) error {
	return m.writeOBJ(w, func(h float32) [3]float32 {
		return bands.ColorFor(NormalizedHeight(h, cfg.MinHeight, cfg.MaxHeight))
	})
}

func (m *Mesh) writeOBJ(w io.Writer, color func(h float32) [3]float32) error {
	if err := m.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# terrain: %d vertices, %d triangles\n", len(m.Vertices), m.TriangleCount())

	for _, v := range m.Vertices {
		p := v.Position
		if color == nil {
			fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
			continue
		}
		c := color(p[1])
		fmt.Fprintf(bw, "v %g %g %g %g %g %g\n", p[0], p[1], p[2], c[0], c[1], c[2])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vt %g %g\n", v.UV[0], v.UV[1])
	}
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
	}

	return bw.Flush()
}
