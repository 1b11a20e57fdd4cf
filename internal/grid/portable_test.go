package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortableRoundTrip(t *testing.T) {
	g := mustGrid(t, Dimensions{Width: 10, Height: 8, Levels: 2, MinLevel: -1})
	g = g.WithPontoon(Pontoon{ID: "a", Position: Position{X: 0, Y: -1, Z: 0}, Type: Double, Color: ColorSand})
	g = g.WithPontoon(Pontoon{ID: "b", Position: Position{X: 0, Y: 0, Z: 0}, Type: Single, Rotation: RotationSouth})

	restored, err := FromPortable(g.ToPortable())
	require.NoError(t, err)
	assert.True(t, g.Equal(restored))
}

func TestToPortableOrdersById(t *testing.T) {
	g := mustGrid(t, Dimensions{Width: 5, Height: 5, Levels: 1})
	g = g.WithPontoon(Pontoon{ID: "z", Position: Position{X: 0, Z: 0}})
	g = g.WithPontoon(Pontoon{ID: "a", Position: Position{X: 1, Z: 0}})

	p := g.ToPortable()
	require.Len(t, p.Pontoons, 2)
	assert.Equal(t, "a", p.Pontoons[0].ID)
	assert.Equal(t, "z", p.Pontoons[1].ID)

	want := PortablePontoon{
		ID:       "a",
		Position: Position{X: 1, Z: 0},
		Type:     "single",
		Color:    "blue",
		Rotation: "north",
	}
	if diff := cmp.Diff(want, p.Pontoons[0]); diff != "" {
		t.Errorf("portable pontoon mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPortableRejectsBadInput(t *testing.T) {
	dims := Dimensions{Width: 5, Height: 5, Levels: 1}
	valid := PortablePontoon{ID: "a", Position: Position{X: 0, Z: 0}, Type: "single", Color: "blue", Rotation: "north"}

	cases := []struct {
		name     string
		pontoons []PortablePontoon
	}{
		{"empty id", []PortablePontoon{{Position: Position{}, Type: "single", Color: "blue", Rotation: "north"}}},
		{"duplicate id", []PortablePontoon{valid, valid}},
		{"unknown type", []PortablePontoon{{ID: "a", Type: "triple", Color: "blue", Rotation: "north"}}},
		{"unknown color", []PortablePontoon{{ID: "a", Type: "single", Color: "mauve", Rotation: "north"}}},
		{"unknown rotation", []PortablePontoon{{ID: "a", Type: "single", Color: "blue", Rotation: "up"}}},
		{"anchor outside grid", []PortablePontoon{{ID: "a", Position: Position{X: 5, Z: 0}, Type: "single", Color: "blue", Rotation: "north"}}},
		{"double tail outside grid", []PortablePontoon{{ID: "a", Position: Position{X: 4, Z: 0}, Type: "double", Color: "blue", Rotation: "north"}}},
		{"two pontoons on one cell", []PortablePontoon{
			valid,
			{ID: "b", Position: Position{X: 0, Z: 0}, Type: "single", Color: "gray", Rotation: "north"},
		}},
		{"double tail over a single", []PortablePontoon{
			{ID: "a", Position: Position{X: 1, Z: 0}, Type: "single", Color: "blue", Rotation: "north"},
			{ID: "b", Position: Position{X: 0, Z: 0}, Type: "double", Color: "gray", Rotation: "north"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromPortable(Portable{Dimensions: dims, Pontoons: tc.pontoons})
			assert.Error(t, err)
		})
	}
}

func TestFromPortableRejectsBadDimensions(t *testing.T) {
	_, err := FromPortable(Portable{Dimensions: Dimensions{Width: 0, Height: 5, Levels: 1}})
	assert.Error(t, err)
}

func TestFromPortableDoesNotApplySupportRules(t *testing.T) {
	// Unsupported layouts load fine; support is the validation
	// engine's business. Cell exclusivity is structural and is not.
	p := Portable{
		Dimensions: Dimensions{Width: 5, Height: 5, Levels: 2},
		Pontoons: []PortablePontoon{
			{ID: "floating", Position: Position{X: 2, Y: 1, Z: 2}, Type: "single", Color: "blue", Rotation: "north"},
		},
	}
	g, err := FromPortable(p)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Count())
}
