package style

// BackgroundKind tags the active variant of a Background.
type BackgroundKind string

const (
	KindSolid       BackgroundKind = "solid"
	KindGradient    BackgroundKind = "gradient"
	KindTransparent BackgroundKind = "transparent"
	KindPicture     BackgroundKind = "picture"
)

const fallbackColor = "#FFFFFF"

// Background describes how the canvas is painted. Only the fields of the
// active Kind are meaningful; Name is a display label.
type Background struct {
	Kind   BackgroundKind
	Name   string
	Color  string   // solid
	Colors []string // gradient, two or more stops
	URI    string   // picture: local file reference
}

func Solid(name, color string) Background {
	return Background{Kind: KindSolid, Name: name, Color: color}
}

func Gradient(name string, colors ...string) Background {
	return Background{Kind: KindGradient, Name: name, Colors: append([]string(nil), colors...)}
}

func Transparent(name string) Background {
	return Background{Kind: KindTransparent, Name: name}
}

func Picture(name, uri string) Background {
	return Background{Kind: KindPicture, Name: name, URI: uri}
}

// Resolve returns a renderable background. Anything that cannot be painted
// as described falls back to solid white, keeping the display name.
func (b Background) Resolve() Background {
	switch b.Kind {
	case KindSolid:
		if _, err := ParseHexColor(b.Color); err == nil {
			return Solid(b.Name, b.Color)
		}
	case KindGradient:
		var stops []string
		for _, c := range b.Colors {
			if _, err := ParseHexColor(c); err == nil {
				stops = append(stops, c)
			}
		}
		if len(stops) >= 2 {
			return Gradient(b.Name, stops...)
		}
	case KindTransparent:
		return Transparent(b.Name)
	case KindPicture:
		if b.URI != "" {
			return Picture(b.Name, b.URI)
		}
	}
	return Solid(b.Name, fallbackColor)
}

// SameAs reports whether two backgrounds paint the same thing, ignoring the name.
func (b Background) SameAs(o Background) bool {
	if b.Kind != o.Kind {
		return false
	}
	switch b.Kind {
	case KindSolid:
		return b.Color == o.Color
	case KindGradient:
		if len(b.Colors) != len(o.Colors) {
			return false
		}
		for i := range b.Colors {
			if b.Colors[i] != o.Colors[i] {
				return false
			}
		}
		return true
	case KindPicture:
		return b.URI == o.URI
	}
	return true
}
