package table

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	baseScore          = 100
	capacityGapPenalty = 10
	exactFitBonus      = 50
	onePlusBonus       = 25
	LocationBonus      = 20
)

// Score rates how well the table fits a party. Higher is better.
func (t *Table) Score(partySize int, locationPreference string) int {
	gap := t.capacity - partySize
	if gap < 0 {
		gap = -gap
	}
	score := baseScore - capacityGapPenalty*gap
	if t.capacity == partySize {
		score += exactFitBonus
	}
	if t.capacity == partySize+1 {
		score += onePlusBonus
	}
	if locationPreference != "" && strings.EqualFold(t.location, locationPreference) {
		score += LocationBonus
	}
	return score
}

func (t *Table) IsCandidate(partySize int) bool {
	return t.status == StatusFree && t.capacity >= partySize
}

type Candidate struct {
	Table *Table
	Score int
}

// RankCandidates returns every eligible table ordered best first: highest
// score, then lowest table number.
func RankCandidates(tables []*Table, partySize int, locationPreference string) []Candidate {
	var out []Candidate
	for _, t := range tables {
		if !t.IsCandidate(partySize) {
			continue
		}
		out = append(out, Candidate{Table: t, Score: t.Score(partySize, locationPreference)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Table.number < out[j].Table.number
	})
	return out
}

func SelectBest(tables []*Table, partySize int, locationPreference string) (*Table, bool) {
	ranked := RankCandidates(tables, partySize, locationPreference)
	if len(ranked) == 0 {
		return nil, false
	}
	return ranked[0].Table, true
}

// EstimateWait derives a wait from the historical average occupancy of
// matching tables, minus how long the soonest-to-free matching table has
// already been occupied. fallback is used when there is no history.
func EstimateWait(tables []*Table, partySize int, averageOccupancy, fallback time.Duration, now time.Time) time.Duration {
	avg := averageOccupancy
	if avg <= 0 {
		avg = fallback
	}
	var longest time.Duration
	found := false
	for _, t := range tables {
		if t.capacity < partySize || t.status != StatusOccupied {
			continue
		}
		if d := t.OccupiedFor(now); !found || d > longest {
			longest = d
			found = true
		}
	}
	wait := avg - longest
	if wait < 0 {
		return 0
	}
	return wait
}

type RotationAlert struct {
	TableID       uuid.UUID
	Number        int
	OccupiedSince time.Time
	OccupiedFor   time.Duration
}

// RotationAlerts lists occupied tables held longer than threshold, longest first.
func RotationAlerts(tables []*Table, threshold time.Duration, now time.Time) []RotationAlert {
	var out []RotationAlert
	for _, t := range tables {
		d := t.OccupiedFor(now)
		if t.status != StatusOccupied || d <= threshold {
			continue
		}
		out = append(out, RotationAlert{
			TableID:       t.id,
			Number:        t.number,
			OccupiedSince: *t.occupiedSince,
			OccupiedFor:   d,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccupiedFor > out[j].OccupiedFor })
	return out
}
