package render

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/colornames"
)

// ErrUnknownColor is returned when a color is neither hex nor a CSS name
var ErrUnknownColor = errors.New("unknown color")

// ParseColor accepts #RGB, #RRGGBB or a CSS color name such as "cornflowerblue"
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return c, nil
		}
		return nil, errors.Wrapf(ErrUnknownColor, "[ParseColor] %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return nil, errors.Wrapf(ErrUnknownColor, "[ParseColor] %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, errors.Wrapf(ErrUnknownColor, "[ParseColor] %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
