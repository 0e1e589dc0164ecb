package analytics

// Unspecified labels rows whose category field is empty.
const Unspecified = "Non renseigné"

// CategoryCount is one bucket of a breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Breakdown groups rows by label in a single pass. Buckets keep the order
// in which each category first appears, which the charts rely on for
// stable colors.
func Breakdown[T any](rows []T, label func(T) string) []CategoryCount {
	out := make([]CategoryCount, 0)
	index := make(map[string]int)
	for _, row := range rows {
		cat := label(row)
		if cat == "" {
			cat = Unspecified
		}
		if i, ok := index[cat]; ok {
			out[i].Count++
			continue
		}
		index[cat] = len(out)
		out = append(out, CategoryCount{Category: cat, Count: 1})
	}
	return out
}
