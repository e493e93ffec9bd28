package kernel

import (
	"log"

	kerrors "github.com/NickG-1/qlever/internal/errors"
	"github.com/NickG-1/qlever/model"
)

// IntersectTwoPostingLists merges two sorted, word-only posting streams on
// matching ContextID, summing the per-list scores of each match. Contexts
// present in only one list are dropped.
func IntersectTwoPostingLists(a, b model.WordEntityPostings) (model.WordEntityPostings, error) {
	if err := a.Validate(); err != nil {
		return model.WordEntityPostings{}, err
	}
	if err := b.Validate(); err != nil {
		return model.WordEntityPostings{}, err
	}
	if a.Len() == 0 || b.Len() == 0 {
		return model.WordEntityPostings{}, nil
	}

	out := model.WordEntityPostings{
		CIDs:   make([]model.ContextID, 0, min(a.Len(), b.Len())),
		Scores: make([]model.Score, 0, min(a.Len(), b.Len())),
	}

	i, j := 0, 0
	for i < a.Len() && j < b.Len() {
		for a.CIDs[i] < b.CIDs[j] {
			i++
			if i >= a.Len() {
				return out, nil
			}
		}
		for b.CIDs[j] < a.CIDs[i] {
			j++
			if j >= b.Len() {
				return out, nil
			}
		}
		for a.CIDs[i] == b.CIDs[j] {
			out.CIDs = append(out.CIDs, b.CIDs[j])
			out.Scores = append(out.Scores, a.Scores[i]+b.Scores[j])
			i++
			j++
			if i >= a.Len() || j >= b.Len() {
				break
			}
		}
	}
	return out, nil
}

// CrossIntersect filters the word-entity postings in eBlock so that only
// entries whose context appears in matching survive. Where matching holds
// several rows for a single context (several accumulated word ids), the
// cross-product of that context's matching rows and eBlock rows is kept:
// the output's word column is matching's, and context/entity/score come
// from eBlock.
func CrossIntersect(matching, eBlock model.WordEntityPostings) (model.WordEntityPostings, error) {
	// matching contributes only contexts and word ids, so a word-only
	// stream without a scores column is accepted.
	if len(matching.WIDs) != 1 {
		return model.WordEntityPostings{}, kerrors.NewMissingWordColumnError(len(matching.WIDs))
	}
	if len(matching.WIDs[0]) != matching.Len() {
		return model.WordEntityPostings{}, kerrors.NewColumnLengthMismatchError("wids", matching.Len(), len(matching.WIDs[0]))
	}
	if err := eBlock.Validate(); err != nil {
		return model.WordEntityPostings{}, err
	}

	var out model.WordEntityPostings
	if matching.Len() == 0 || eBlock.Len() == 0 {
		return out, nil
	}
	out.WIDs = [][]model.WordID{{}}
	out.CIDs = make([]model.ContextID, 0, eBlock.Len())
	out.EIDs = make([]model.EntityID, 0, eBlock.Len())
	out.Scores = make([]model.Score, 0, eBlock.Len())

	mWids := matching.WIDs[0]
	i, j := 0, 0
	for i < matching.Len() && j < eBlock.Len() {
		for matching.CIDs[i] < eBlock.CIDs[j] {
			i++
			if i >= matching.Len() {
				return out, nil
			}
		}
		for eBlock.CIDs[j] < matching.CIDs[i] {
			j++
			if j >= eBlock.Len() {
				return out, nil
			}
		}
		for matching.CIDs[i] == eBlock.CIDs[j] {
			k := 0
			for i+k < matching.Len() && matching.CIDs[i+k] == matching.CIDs[i] {
				out.WIDs[0] = append(out.WIDs[0], mWids[i+k])
				out.CIDs = append(out.CIDs, eBlock.CIDs[j])
				out.EIDs = append(out.EIDs, eBlock.EIDs[j])
				out.Scores = append(out.Scores, eBlock.Scores[j])
				k++
			}
			j++
			if j >= eBlock.Len() {
				break
			}
		}
		i++
	}
	return out, nil
}

// CrossIntersectKWay performs a galloping round-robin intersection of k
// sorted posting lists on ContextID. It never maintains a priority queue:
// it tracks a single "current candidate" context and a streak counter,
// advancing lists round-robin until either the streak reaches k (a match,
// emitted immediately) or a higher context resets the streak. The last
// list in lists drives entity mode: if it carries entities, every posting
// in it contributes its own output row (a context may recur there), and
// per-list scores attributed to a match follow the index immediately
// before the current one in every list but the one that just landed on
// the candidate — the same attribution the intersector itself uses while
// galloping, not a separate re-scan.
//
// lists must be non-empty; an empty slice is a precondition violation
// since there is no well-defined intersection of zero lists.
func CrossIntersectKWay(lists []model.WordEntityPostings) (model.WordEntityPostings, error) {
	k := len(lists)
	if k == 0 {
		return model.WordEntityPostings{}, kerrors.NewEmptyInputListError("CrossIntersectKWay")
	}
	for _, l := range lists {
		if err := l.ValidateOneWordColumn(); err != nil {
			return model.WordEntityPostings{}, err
		}
	}

	last := lists[k-1]
	entityMode := last.HasEntities()
	if last.Len() == 0 {
		log.Printf("kernel: k-way intersect short-circuits, last list is empty")
		return emptyKWayResult(k, entityMode), nil
	}
	for _, l := range lists[:k-1] {
		if l.Len() == 0 {
			return emptyKWayResult(k, entityMode), nil
		}
	}

	log.Printf("kernel: k-way intersection of %d lists", k)

	next := make([]int, k)
	currentContext := lists[k-1].CIDs[0]
	currentList := k - 1
	streak := 0

	out := model.WordEntityPostings{
		CIDs:   make([]model.ContextID, 0, last.Len()),
		Scores: make([]model.Score, 0, last.Len()),
		WIDs:   make([][]model.WordID, k),
	}
	if entityMode {
		out.EIDs = make([]model.EntityID, 0, last.Len())
	}

	scoreAt := func(listIdx, idx int) model.Score { return lists[listIdx].Scores[idx] }
	widAt := func(listIdx, idx int) model.WordID { return lists[listIdx].WIDs[0][idx] }

	for {
		size := lists[currentList].Len()
		if next[currentList] == size {
			break
		}
		for lists[currentList].CIDs[next[currentList]] < currentContext {
			next[currentList]++
			if next[currentList] == size {
				break
			}
		}
		if next[currentList] == size {
			break
		}
		atID := lists[currentList].CIDs[next[currentList]]
		if atID == currentContext {
			streak++
			if streak == k {
				attributedIdx := make([]int, k)
				for i := 0; i < k; i++ {
					if i == currentList {
						attributedIdx[i] = next[i]
					} else {
						attributedIdx[i] = next[i] - 1
					}
				}
				var sum model.Score
				for i := 0; i < k-1; i++ {
					sum += scoreAt(i, attributedIdx[i])
				}

				if entityMode {
					matchInLast := attributedIdx[k-1]
					for matchInLast < last.Len() && last.CIDs[matchInLast] == currentContext {
						out.CIDs = append(out.CIDs, currentContext)
						out.EIDs = append(out.EIDs, last.EIDs[matchInLast])
						out.Scores = append(out.Scores, sum+scoreAt(k-1, matchInLast))
						for i := 0; i < k-1; i++ {
							out.WIDs[i] = append(out.WIDs[i], widAt(i, attributedIdx[i]))
						}
						out.WIDs[k-1] = append(out.WIDs[k-1], widAt(k-1, matchInLast))
						matchInLast++
					}
					next[k-1] = matchInLast
				} else {
					out.CIDs = append(out.CIDs, currentContext)
					out.Scores = append(out.Scores, sum+scoreAt(k-1, attributedIdx[k-1]))
					for i := 0; i < k; i++ {
						out.WIDs[i] = append(out.WIDs[i], widAt(i, attributedIdx[i]))
					}
				}
				currentList = k - 1
				continue
			}
		} else {
			streak = 1
			currentContext = atID
		}
		next[currentList]++
		currentList++
		if currentList == k {
			currentList = 0
		}
	}

	log.Printf("kernel: k-way intersection done, %d contexts matched", out.Len())
	return out, nil
}

func emptyKWayResult(k int, entityMode bool) model.WordEntityPostings {
	out := model.WordEntityPostings{WIDs: make([][]model.WordID, k)}
	for i := range out.WIDs {
		out.WIDs[i] = []model.WordID{}
	}
	return out
}
