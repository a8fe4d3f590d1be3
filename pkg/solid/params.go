package solid

import "fmt"

// Metadata keys for the persistence boundary. The engine defines the
// names and semantics only; the surrounding application owns the actual
// serialization of the metadata map.
const (
	KeyPullDepth      = "pullDepth"
	KeyHollow         = "hollow"
	KeyWallThickness  = "wallThickness"
	KeyFloorThickness = "floorThickness"
	KeyExtraCut       = "extraCut"
	KeyProfileShape   = "profileShape"
)

// ToMap flattens the parameter set into opaque key-value metadata.
func (p Params) ToMap() map[string]any {
	m := map[string]any{
		KeyPullDepth:      p.PullDepth,
		KeyHollow:         p.Hollow,
		KeyWallThickness:  p.WallThickness,
		KeyFloorThickness: p.FloorThickness,
		KeyExtraCut:       p.ExtraCut,
	}
	switch prof := p.Profile.(type) {
	case Rect:
		m[KeyProfileShape] = map[string]any{"kind": "rect", "w": prof.W, "l": prof.L}
	case Circle:
		m[KeyProfileShape] = map[string]any{"kind": "circle", "r": prof.R}
	case Polygon:
		verts := make([][2]float64, len(prof.Verts))
		copy(verts, prof.Verts)
		m[KeyProfileShape] = map[string]any{"kind": "polygon", "verts": verts}
	}
	return m
}

// ParamsFromMap rebuilds a parameter set from metadata written by
// ToMap. Missing keys keep their zero values; a malformed profile shape
// is an error, since guessing kinds is exactly what the closed variant
// exists to avoid.
func ParamsFromMap(m map[string]any) (Params, error) {
	var p Params
	if v, ok := m[KeyPullDepth].(float64); ok {
		p.PullDepth = v
	}
	if v, ok := m[KeyHollow].(bool); ok {
		p.Hollow = v
	}
	if v, ok := m[KeyWallThickness].(float64); ok {
		p.WallThickness = v
	}
	if v, ok := m[KeyFloorThickness].(float64); ok {
		p.FloorThickness = v
	}
	if v, ok := m[KeyExtraCut].(float64); ok {
		p.ExtraCut = v
	}

	raw, ok := m[KeyProfileShape]
	if !ok || raw == nil {
		return p, nil
	}
	shape, ok := raw.(map[string]any)
	if !ok {
		return p, fmt.Errorf("solid: profileShape has unexpected type %T", raw)
	}
	kind, _ := shape["kind"].(string)
	switch kind {
	case "rect":
		w, _ := shape["w"].(float64)
		l, _ := shape["l"].(float64)
		p.Profile = Rect{W: w, L: l}
	case "circle":
		r, _ := shape["r"].(float64)
		p.Profile = Circle{R: r}
	case "polygon":
		verts, err := polygonVerts(shape["verts"])
		if err != nil {
			return p, err
		}
		p.Profile = Polygon{Verts: verts}
	default:
		return p, fmt.Errorf("solid: unknown profile kind %q", kind)
	}
	return p, nil
}

// polygonVerts accepts both the in-memory [][2]float64 form and the
// []any form a JSON round-trip produces.
func polygonVerts(raw any) ([][2]float64, error) {
	switch v := raw.(type) {
	case [][2]float64:
		out := make([][2]float64, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([][2]float64, 0, len(v))
		for _, e := range v {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("solid: polygon vertex %v is not a coordinate pair", e)
			}
			x, xok := pair[0].(float64)
			z, zok := pair[1].(float64)
			if !xok || !zok {
				return nil, fmt.Errorf("solid: polygon vertex %v is not numeric", e)
			}
			out = append(out, [2]float64{x, z})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("solid: polygon profile has unexpected vertex type %T", raw)
	}
}
