package snapshot

// Color is the decoration class attached to a rendered node.
type Color int

const (
	ColorNone Color = iota
	ColorRed
	ColorBlack
)

func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorBlack:
		return "black"
	default:
		return ""
	}
}

// DecodeColor maps a raw color token to red or black. The service has sent
// "RED", "red" and the integer 0 for red at different times, so all three are
// accepted; any other token is black.
func DecodeColor(raw interface{}) Color {
	switch v := raw.(type) {
	case string:
		if v == "RED" || v == "red" {
			return ColorRed
		}
	case int:
		if v == 0 {
			return ColorRed
		}
	case int8:
		if v == 0 {
			return ColorRed
		}
	case int16:
		if v == 0 {
			return ColorRed
		}
	case int32:
		if v == 0 {
			return ColorRed
		}
	case int64:
		if v == 0 {
			return ColorRed
		}
	case uint:
		if v == 0 {
			return ColorRed
		}
	case uint8:
		if v == 0 {
			return ColorRed
		}
	case uint16:
		if v == 0 {
			return ColorRed
		}
	case uint32:
		if v == 0 {
			return ColorRed
		}
	case uint64:
		if v == 0 {
			return ColorRed
		}
	case float32:
		if v == 0 {
			return ColorRed
		}
	case float64:
		if v == 0 {
			return ColorRed
		}
	}
	return ColorBlack
}

// Decorate returns the color class for rec under variant v. Only red-black
// trees are colored, and only records that carry a color token.
func Decorate(rec NodeRecord, v Variant) Color {
	if !v.IsRedBlack() || !rec.HasColor() {
		return ColorNone
	}
	return DecodeColor(rec.Color)
}
