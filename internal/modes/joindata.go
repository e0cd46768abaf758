package modes

// JoinData is the small heterogeneous bag passed through JoinMode into a
// controller's OnModeJoin. It is the only cross-controller contract surface;
// controllers must treat missing or mistyped keys as malformed input.
type JoinData map[string]any

// Int reads an integer key. JSON-decoded numbers arrive as float64 and are
// accepted when integral.
func (d JoinData) Int(key string) (int, bool) {
	if d == nil {
		return 0, false
	}
	switch v := d[key].(type) {
	case int:
		return v, true
	case float64:
		if v == float64(int(v)) {
			return int(v), true
		}
	}
	return 0, false
}

// String reads a string key.
func (d JoinData) String(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	v, ok := d[key].(string)
	return v, ok
}
