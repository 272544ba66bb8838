package viewer

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gpr300/terrainlab/internal/engine/lighting"
	"github.com/gpr300/terrainlab/internal/engine/panel"
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/pkg/math"
)

const (
	tabTerrain = iota
	tabHeightmap
	tabColors
	tabMaterial
	tabLights
)

var settingsTabs = []string{"Terrain", "Height", "Colors", "Material", "Lights"}

// settings is the on-screen window for everything the keyboard shortcuts
// cannot reach. Terrain edits stay pending until Regenerate.
type settings struct {
	ui       *panel.Context
	renderer *panel.Renderer
	visible  bool
	tab      int

	pending terrain.Config

	sunLongitude float32
	sunLatitude  float32
}

func newSettings(cfg terrain.Config) (*settings, error) {
	font := panel.NewFont()
	r, err := panel.NewRenderer(font)
	if err != nil {
		return nil, err
	}
	return &settings{
		ui:           panel.NewContext(font),
		renderer:     r,
		visible:      true,
		pending:      cfg,
		sunLongitude: 45,
		sunLatitude:  50,
	}, nil
}

// wantsMouse reports whether the last frame's window owns the mouse.
func (s *settings) wantsMouse() bool {
	return s.visible && s.ui.WantsMouse()
}

// settingsFrame builds and draws the window. Call after the scene is drawn.
func (v *Viewer) settingsFrame() {
	s := v.settings
	if s == nil || !s.visible {
		return
	}

	mx, my := v.input.MousePosition()
	in := s.ui.Input()
	in.MouseX, in.MouseY = float32(mx), float32(my)
	in.MouseDown = !v.flying && v.input.IsButtonHeld(sdl.BUTTON_LEFT)

	w, h := v.window.LogicalSize()
	s.ui.Begin(float32(w), float32(h))
	if s.ui.BeginWindow("settings", "Settings (Tab)", 10, 10, 360) {
		s.ui.Tabs("tabs", settingsTabs, &s.tab)
		s.ui.Separator()
		switch s.tab {
		case tabTerrain:
			v.terrainTab()
		case tabHeightmap:
			v.heightmapTab()
		case tabColors:
			v.colorsTab()
		case tabMaterial:
			v.materialTab()
		case tabLights:
			v.lightsTab()
		}
	}
	s.ui.EndWindow()
	s.renderer.Draw(s.ui.End(), w, h)
}

func (v *Viewer) terrainTab() {
	ui, cfg := v.settings.ui, &v.settings.pending

	ui.Row(0)
	ui.SliderInt("resolution", "Resolution", &cfg.Resolution, 1, 4000)
	ui.Row(0)
	ui.SliderFloat("width", "Width", &cfg.Width, 1, 5000)
	ui.Row(0)
	ui.SliderFloat("length", "Length", &cfg.Length, 1, 5000)

	ui.Row(0)
	wire := v.renderer.Wireframe()
	if ui.Checkbox("wireframe", "Wireframe", &wire) {
		v.renderer.SetWireframe(wire)
	}
	ui.Row(0)
	ortho := v.orbit.Orthographic
	if ui.Checkbox("ortho", "Orthographic", &ortho) {
		v.setOrthographic(ortho)
	}

	v.regenerateRow()
}

func (v *Viewer) heightmapTab() {
	ui, cfg := v.settings.ui, &v.settings.pending

	ui.Row(0)
	ui.SliderFloat("blur", "Blur", &cfg.Blur, 0, 30)
	ui.Row(0)
	ui.SliderFloat("redistribution", "Redistribution", &cfg.Redistribution, 0, 10)
	ui.Row(0)
	ui.SliderFloat("min", "Min height", &cfg.MinHeight, -500, 500)
	ui.Row(0)
	ui.SliderFloat("max", "Max height", &cfg.MaxHeight, -500, 500)

	v.regenerateRow()
}

func (v *Viewer) regenerateRow() {
	ui := v.settings.ui
	ui.Separator()
	ui.Row(0)
	if ui.Button("regenerate", "Regenerate Terrain", 0) {
		v.applyPending()
	}
	if gen := v.scene.Generator(); gen.Mesh() != nil {
		ui.Row(0)
		ui.LabelColored(fmt.Sprintf("%d cells, build #%d", gen.Config().Cells(), gen.Generation()), panel.ColorTextDim)
	}
}

func (v *Viewer) colorsTab() {
	ui, sc := v.settings.ui, v.scene

	ui.Row(0)
	ui.SliderFloat("blend", "Blend threshold", &sc.BlendThreshold, 0, 1)
	ui.Row(0)
	ui.SliderFloat("noise", "Noise influence", &sc.NoiseInfluence, 0, 1)
	ui.Separator()

	for i := 0; i < sc.Bands.Len(); i++ {
		band := sc.Bands.Band(i)
		ui.Row(0)
		col := band.Color
		if ui.ColorEdit(fmt.Sprintf("bandcol%d", i), &col) {
			sc.Bands.SetColor(i, col)
		}
		ui.Row(0)
		if i == sc.Bands.Len()-1 {
			ui.LabelColored(fmt.Sprintf("Band %d: up to the top", i), panel.ColorTextDim)
			continue
		}
		t := band.Threshold
		if ui.SliderFloat(fmt.Sprintf("band%d", i), fmt.Sprintf("Band %d", i), &t, 0, 1) {
			sc.Bands.SetThreshold(i, t)
		}
	}

	ui.Separator()
	ui.Row(0)
	if ui.Button("add", "Add Color", 120) {
		if err := sc.Bands.Add(); err != nil {
			v.warn("cannot add colour band", err)
		}
	}
	if ui.Button("remove", "Remove Color", 120) {
		sc.Bands.Remove()
	}
}

func (v *Viewer) materialTab() {
	ui, m := v.settings.ui, &v.scene.Material

	ui.Row(0)
	ui.Swatch(m.Color, 20)
	ui.Label("Color")
	ui.Row(0)
	ui.SliderFloat("ambient", "Ambient", &m.Ambient, 0, 1)
	ui.Row(0)
	ui.SliderFloat("diffuse", "Diffuse", &m.Diffuse, 0, 1)
	ui.Row(0)
	ui.SliderFloat("specular", "Specular", &m.Specular, 0, 1)
	ui.Row(0)
	ui.SliderFloat("shininess", "Shininess", &m.Shininess, 1, 512)
}

func (v *Viewer) lightsTab() {
	s := v.settings
	ui, lights := s.ui, v.scene.Lights

	if suns := lights.Lights(lighting.Directional); len(suns) > 0 {
		ui.Row(0)
		lon := ui.SliderFloat("sunlon", "Sun longitude", &s.sunLongitude, 0, 360)
		ui.Row(0)
		lat := ui.SliderFloat("sunlat", "Sun latitude", &s.sunLatitude, -90, 90)
		if lon || lat {
			suns[0].Direction = lighting.SunDirection(s.sunLongitude, s.sunLatitude)
		}
		ui.Separator()
	}

	for _, kind := range []lighting.Kind{lighting.Ambient, lighting.Directional, lighting.Point, lighting.Spot} {
		for i := range lights.Lights(kind) {
			l := &lights.Lights(kind)[i]
			id := fmt.Sprintf("%s%d", kind, i)
			ui.Row(0)
			ui.SliderFloat(id, fmt.Sprintf("%s %d", kind, i), &l.Intensity, 0, 3)
			ui.Row(0)
			ui.ColorEdit(id+"col", &l.Color)

			switch kind {
			case lighting.Point:
				v.positionRow(id, l)
				v.falloffRows(id, l)
			case lighting.Spot:
				v.positionRow(id, l)
				v.directionRow(id, l)
				v.falloffRows(id, l)
				v.coneRows(id, l)
			}
			if kind == lighting.Point || kind == lighting.Spot {
				ui.Row(0)
				ui.LabelColored(fmt.Sprintf("At orbit centre: %.3f", lightAt(*l, v.orbit.Center)), panel.ColorTextDim)
			}
			ui.Separator()
		}
	}
}

// lightRange bounds the light position sliders.
const lightRange = 1000

func (v *Viewer) positionRow(id string, l *lighting.Light) {
	pos := l.Position.Array()
	v.settings.ui.Row(0)
	if v.settings.ui.SliderFloat3(id+"pos", [3]string{"X", "Y", "Z"}, &pos, -lightRange, lightRange) {
		l.Position = math.Vec3From(pos)
	}
}

// directionRow edits the spot direction. A zero vector keeps the old one.
func (v *Viewer) directionRow(id string, l *lighting.Light) {
	dir := l.Direction.Array()
	v.settings.ui.Row(0)
	if v.settings.ui.SliderFloat3(id+"dir", [3]string{"DX", "DY", "DZ"}, &dir, -1, 1) {
		if d := math.Vec3From(dir); d.Length() > 0 {
			l.Direction = d.Normalize()
		}
	}
}

func (v *Viewer) falloffRows(id string, l *lighting.Light) {
	ui := v.settings.ui
	ui.Row(0)
	ui.SliderFloat(id+"const", "Constant", &l.Constant, 0.1, 1)
	ui.Row(0)
	ui.SliderFloat(id+"lin", "Linear", &l.Linear, 0, 1)
	ui.Row(0)
	ui.SliderFloat(id+"quad", "Quadratic", &l.Quadratic, 0, 1)
}

func (v *Viewer) coneRows(id string, l *lighting.Light) {
	ui := v.settings.ui
	ui.Row(0)
	ui.SliderFloat(id+"pen", "Penumbra", &l.Penumbra, 0, l.Umbra)
	ui.Row(0)
	ui.SliderFloat(id+"umb", "Umbra", &l.Umbra, l.Penumbra, maxUmbra)
	ui.Row(0)
	ui.SliderFloat(id+"exp", "Exponent", &l.Exponent, 0, 3)
}

// maxUmbra keeps the spot cone under a hemisphere.
const maxUmbra = 179.99

// lightAt is the share of l's intensity that reaches p before shading.
func lightAt(l lighting.Light, p math.Vec3) float32 {
	d := p.Sub(l.Position)
	return l.Intensity * l.Attenuation(d.Length()) * l.SpotFactor(d)
}

// applyPending rebuilds the terrain from the edited settings and keeps them
// as the live config on success.
func (v *Viewer) applyPending() {
	cfg := v.settings.pending
	if err := cfg.Validate(); err != nil {
		v.settings.pending = v.config.Terrain.Config
		v.warn("settings rejected", err)
		return
	}
	if err := v.scene.Regenerate(cfg); err != nil {
		v.warn("keeping current terrain", err)
		return
	}
	v.config.Terrain.Config = cfg
}
