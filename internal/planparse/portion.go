package planparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/genau-project/speisecheck/internal/model"
)

// portionPattern accepts only "<number>g" and "<number>ml" after whitespace
// removal. Everything else yields no portion; that narrowing is deliberate.
var portionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)(g|ml)$`)

// ParsePortion parses serving-size text such as "200 g", "200g", "120 ml".
// Unparseable text returns nil, which is missing data, not an error.
func ParsePortion(text string) *model.Portion {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return nil
	}

	m := portionPattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &model.Portion{Value: value, Unit: m[2]}
}
