package document

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mamadbah2/birdo/internal/domain/models"
)

type rgb struct{ r, g, b int }

// ValidColor reports whether s is accepted as a card background.
func ValidColor(s string) bool {
	_, err := parseHexColor(s)
	return err == nil
}

func parseHexColor(s string) (rgb, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return rgb{}, fmt.Errorf("background %q is not a #RRGGBB colour: %w", s, models.ErrMalformedInput)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("background %q is not a #RRGGBB colour: %w", s, models.ErrMalformedInput)
	}
	return rgb{r: int(v >> 16 & 0xff), g: int(v >> 8 & 0xff), b: int(v & 0xff)}, nil
}
