package command

import (
	"fmt"
	"strings"

	"github.com/Alp4ka/moderator"
)

// parseFilter reads key=value pairs into a Filter. Values may not contain
// spaces; "q" may be repeated and its words are joined.
func parseFilter(args []string) (moderator.Filter, error) {
	var (
		filter moderator.Filter
		words  []string
	)

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return moderator.Filter{}, fmt.Errorf("filter argument %q is not key=value", arg)
		}

		switch strings.ToLower(key) {
		case "q", "query":
			words = append(words, value)
		case "type":
			filter.Type = moderator.ItemType(strings.ToLower(value))
		case "category", "cat":
			filter.Category = value
		case "status":
			filter.Status = moderator.Status(strings.ToLower(value))
		case "station":
			filter.Station = value
		case "date":
			filter.DateStr = value
		default:
			return moderator.Filter{}, fmt.Errorf("unknown filter key %q", key)
		}
	}

	filter.Query = strings.Join(words, " ")

	return filter, nil
}

func describeFilter(f moderator.Filter) string {
	if f.IsZero() {
		return "none"
	}
	f = f.Normalize()

	var parts []string
	add := func(key, value string) {
		if value != "" {
			parts = append(parts, key+"="+value)
		}
	}
	add("q", f.Query)
	add("type", string(f.Type))
	add("category", f.Category)
	add("status", string(f.Status))
	add("station", f.Station)
	add("date", f.DateStr)

	return strings.Join(parts, " ")
}
