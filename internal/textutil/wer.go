package textutil

// WordErrorRate is the word-level edit distance between two strings after
// normalization, divided by the word count of the longer one. The result is
// in [0,1]; 0 means the normalized forms match exactly.
func WordErrorRate(a, b string) float64 {
	wa := NormalizeWords(a)
	wb := NormalizeWords(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 0
	}
	longer := len(wa)
	if len(wb) > longer {
		longer = len(wb)
	}
	return float64(editDistance(wa, wb)) / float64(longer)
}

func editDistance(a, b []string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
