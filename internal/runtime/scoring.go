package runtime

import (
	"github.com/aretw0/upskill/pkg/catalog"
	"github.com/aretw0/upskill/pkg/domain"
)

// Tally aggregates option scores per track over the full answer set.
//
// Every recorded answer counts, including answers to questions that have since
// become hidden. Options with AffinityAny add their full score to every track.
// Unknown questions or options (e.g. a stored session after a catalog change) are skipped.
func Tally(cat *catalog.Catalog, answers domain.AnswerSet) map[domain.Track]int {
	tallies := make(map[domain.Track]int, len(domain.TrackPriority))
	for _, t := range domain.TrackPriority {
		tallies[t] = 0
	}

	for _, qid := range answers.QuestionIDs() {
		q, ok := cat.Question(qid)
		if !ok {
			continue
		}
		for _, oid := range answers.Selected(qid) {
			opt, ok := q.Option(oid)
			if !ok {
				continue
			}
			switch opt.Affinity {
			case domain.AffinityNone:
			case domain.AffinityAny:
				for _, t := range domain.TrackPriority {
					tallies[t] += opt.Score
				}
			default:
				if t := domain.Track(opt.Affinity); t.Valid() {
					tallies[t] += opt.Score
				}
			}
		}
	}
	return tallies
}

// ResolveTrack returns the track with the strictly highest tally.
// Ties go to the earliest track in domain.TrackPriority, so an empty answer set
// resolves to the first track.
func ResolveTrack(cat *catalog.Catalog, answers domain.AnswerSet) (domain.Track, map[domain.Track]int) {
	tallies := Tally(cat, answers)
	best := domain.TrackPriority[0]
	for _, t := range domain.TrackPriority[1:] {
		if tallies[t] > tallies[best] {
			best = t
		}
	}
	return best, tallies
}
