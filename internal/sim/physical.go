package sim

import (
	"github.com/xtding233/rinksim/internal/rating"
	"github.com/xtding233/rinksim/internal/roster"
)

// trials counts successes of n independent attempts at p.
func trials(rng RandomSource, n int, p float64) int {
	hits := 0
	for i := 0; i < n; i++ {
		if chance(p, rng) {
			hits++
		}
	}
	return hits
}

func positionBonus(la *roster.LineAssignment, defense float64) float64 {
	if la.Kind == roster.LineDefense {
		return defense
	}
	return 1
}

// physicalPass credits hits and blocks for one period. Opportunities scale
// with ice time: a top line gets about 17 hit chances a period.
func physicalPass(rng RandomSource, s *side, isPlayoff bool) {
	for _, i := range s.skaters {
		la := s.line(i)
		rec := s.stats.slot(i)
		if rec == nil {
			continue
		}
		p := &la.Player
		ice := rating.IceTimeShare(la.Kind, la.Depth)

		hitChance := rating.Fold(rating.Physicality(p, isPlayoff)/100, 0.04, s.style.PhysicalBonus, p.Type.HitModifier())
		rec.Hits += trials(rng, int(50*ice), hitChance)

		blockChance := rating.Fold(float64(p.Defense)/100, 0.025, p.Type.BlockModifier(), positionBonus(la, 1.5))
		rec.Blocks += trials(rng, int(40*ice), blockChance)
	}
}

// turnoverPass credits takeaways (defense driven) and giveaways (driven by
// low consistency) for one period.
func turnoverPass(rng RandomSource, s *side) {
	for _, i := range s.skaters {
		la := s.line(i)
		rec := s.stats.slot(i)
		if rec == nil {
			continue
		}
		p := &la.Player
		ice := rating.IceTimeShare(la.Kind, la.Depth)

		takeChance := rating.Fold(float64(p.Defense)/100, 0.02, p.Type.TakeawayModifier(), positionBonus(la, 1.3))
		rec.Takeaways += trials(rng, int(30*ice), takeChance)

		careless := (1-float64(p.Consistency)/100)*0.03 + 0.005
		giveChance := rating.Fold(careless, p.Type.GiveawayModifier())
		rec.Giveaways += trials(rng, int(25*ice), giveChance)
	}
}
