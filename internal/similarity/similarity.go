// Package similarity scores how close two question texts are and classifies
// the result as a duplicate, a reframing or a new question.
package similarity

import "github.com/abhisek/qcheck/internal/textnorm"

// Score returns a similarity in [0, 100] between a and b after
// normalisation. Either side empty scores 0.
//
// The ratio is 200·M/(len a + len b), where M is the total length of the
// matching blocks found by recursive longest-common-substring search. The
// greedy search is order sensitive, so M is taken as the larger of both
// directions to keep Score(a, b) == Score(b, a).
func Score(a, b string) float64 {
	ra := []rune(textnorm.Normalize(a))
	rb := []rune(textnorm.Normalize(b))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	m := max(matched(ra, rb), matched(rb, ra))
	return 200 * float64(m) / float64(len(ra)+len(rb))
}

type span struct{ alo, ahi, blo, bhi int }

// matched sums the lengths of all matching blocks between a and b.
func matched(a, b []rune) int {
	total := 0
	queue := []span{{0, len(a), 0, len(b)}}
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, k := longestMatch(a, b, s)
		if k == 0 {
			continue
		}
		total += k
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+k < s.ahi && j+k < s.bhi {
			queue = append(queue, span{i + k, s.ahi, j + k, s.bhi})
		}
	}
	return total
}

// longestMatch finds the longest common substring of a[alo:ahi] and
// b[blo:bhi]. Among equally long matches it returns the one starting
// earliest in a, then earliest in b.
func longestMatch(a, b []rune, s span) (besti, bestj, bestk int) {
	besti, bestj = s.alo, s.blo
	width := s.bhi - s.blo
	prev := make([]int, width+1)
	cur := make([]int, width+1)
	for i := s.alo; i < s.ahi; i++ {
		for j := s.blo; j < s.bhi; j++ {
			x := j - s.blo + 1
			if a[i] != b[j] {
				cur[x] = 0
				continue
			}
			k := prev[x-1] + 1
			cur[x] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		prev, cur = cur, prev
	}
	return besti, bestj, bestk
}
