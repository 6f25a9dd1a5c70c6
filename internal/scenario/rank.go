package scenario

import "sort"

type Ranked struct {
	Rank int
	// Index is the position of the result in the ranked slice's input.
	Index int
	Result
}

// RankByTotalInterest orders successful results by total interest paid,
// cheapest first. Failed results are left out.
func RankByTotalInterest(results []Result) []Ranked {
	out := make([]Ranked, 0, len(results))
	for i, r := range results {
		if r.Err != nil || r.Schedule == nil {
			continue
		}
		out = append(out, Ranked{Index: i, Result: r})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Summary.TotalInterest < out[j].Summary.TotalInterest
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
