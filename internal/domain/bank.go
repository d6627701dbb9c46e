package domain

import "math/rand"

// FilterCategory keeps questions tagged with category plus untagged ones.
// An empty category keeps everything.
func FilterCategory(bank []Question, category string) []Question {
	if category == "" {
		return bank
	}
	out := make([]Question, 0, len(bank))
	for _, q := range bank {
		if q.Category == "" || q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Pick shuffles a copy of bank and returns at most count questions with unique IDs.
func Pick(bank []Question, count int, rnd *rand.Rand) []Question {
	shuffled := make([]Question, len(bank))
	copy(shuffled, bank)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	seen := make(map[string]struct{}, len(shuffled))
	out := make([]Question, 0, min(count, len(shuffled)))
	for _, q := range shuffled {
		if len(out) == count {
			break
		}
		if _, dup := seen[q.ID]; dup {
			continue
		}
		seen[q.ID] = struct{}{}
		out = append(out, q)
	}
	return out
}
