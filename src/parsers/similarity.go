// backend/src/parsers/similarity.go
package parsers

// jaro returns the Jaro similarity of two strings in [0,1]. Identical
// strings score 1, and any comparison involving an empty string scores 0.
func jaro(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}
	len1, len2 := len(s1), len(s2)
	if len1 == 0 || len2 == 0 {
		return 0.0
	}
	maxDist := max(len1, len2)/2 - 1

	match1 := make([]bool, len1)
	match2 := make([]bool, len2)
	matches := 0
	for i := 0; i < len1; i++ {
		start := max(0, i-maxDist)
		end := min(i+maxDist+1, len2)
		for j := start; j < end; j++ {
			if match2[j] {
				continue
			}
			if s1[i] == s2[j] {
				match1[i] = true
				match2[j] = true
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !match1[i] {
			continue
		}
		for !match2[k] {
			k++
		}
		if s1[i] != s2[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(len1) + m/float64(len2) + (m-float64(transpositions))/m) / 3.0
}

// JaroWinkler boosts the Jaro score for strings sharing a common prefix of
// up to 4 characters, scaled by 0.1 per shared character.
func JaroWinkler(s1, s2 string) float64 {
	const p = 0.1
	j := jaro(s1, s2)
	prefix := 0
	limit := min(4, min(len(s1), len(s2)))
	for i := 0; i < limit; i++ {
		if s1[i] != s2[i] {
			break
		}
		prefix++
	}
	return j + float64(prefix)*p*(1.0-j)
}
