package research

import "strings"

// querySuffixes are appended to the topic, most useful first
var querySuffixes = []string{
	"",
	"complete guide",
	"price and hours",
	"tips",
	"review",
	"location",
	"things to do",
	"history",
}

const (
	minQueries = 5
	maxQueries = 8
)

// QueryVariants returns 5-8 search queries for a topic. limit outside that
// range is clamped.
func QueryVariants(topic string, limit int) []string {
	topic = strings.Join(strings.Fields(topic), " ")
	if topic == "" {
		return nil
	}
	if limit < minQueries {
		limit = minQueries
	}
	if limit > maxQueries {
		limit = maxQueries
	}

	queries := make([]string, 0, limit)
	for _, suffix := range querySuffixes[:limit] {
		if suffix == "" {
			queries = append(queries, topic)
			continue
		}
		queries = append(queries, topic+" "+suffix)
	}
	return queries
}
