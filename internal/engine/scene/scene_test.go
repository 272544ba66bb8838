package scene

import (
	"testing"

	"github.com/gpr300/terrainlab/internal/engine/lighting"
	"github.com/gpr300/terrainlab/pkg/math"
)

func TestDefaultLightsValidate(t *testing.T) {
	tests := []struct {
		name  string
		light lighting.Light
		kind  lighting.Kind
	}{
		{"point", DefaultPoint(), lighting.Point},
		{"spot", DefaultSpot(), lighting.Spot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.light.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", tt.light.Kind, tt.kind)
			}
			if err := tt.light.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
			if tt.light.Position.Y <= 120 {
				t.Errorf("light at %+v sits below the default peak", tt.light.Position)
			}
		})
	}
}

func TestDefaultSpotLightsOrigin(t *testing.T) {
	spot := DefaultSpot()
	toOrigin := math.Vec3{}.Sub(spot.Position)
	if f := spot.SpotFactor(toOrigin); f != 1 {
		t.Errorf("SpotFactor toward origin = %v, want 1", f)
	}
	if a := spot.Attenuation(toOrigin.Length()); a <= 0.2 {
		t.Errorf("Attenuation at origin = %v, want a visible contribution", a)
	}
}
