package sizing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HeightToCm converts feet'inches notation ("5'7", `5'7"`) to centimeters rounded to
// two decimals.
func HeightToCm(raw string) (float64, error) {
	text := strings.ReplaceAll(strings.TrimSpace(raw), `"`, "")
	feetPart, inchPart, ok := strings.Cut(text, "'")
	if !ok || strings.Contains(inchPart, "'") {
		return 0, fmt.Errorf("height %q: expected feet'inches", raw)
	}
	feet, err := strconv.Atoi(strings.TrimSpace(feetPart))
	if err != nil {
		return 0, fmt.Errorf("height %q: invalid feet", raw)
	}
	inches, err := strconv.Atoi(strings.TrimSpace(inchPart))
	if err != nil {
		return 0, fmt.Errorf("height %q: invalid inches", raw)
	}
	cm := float64(feet)*30.48 + float64(inches)*2.54
	return math.Round(cm*100) / 100, nil
}
