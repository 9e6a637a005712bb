package catalog

import (
	"github.com/okian/gwbadge/internal/domain/model"
)

// Deferral flags for the rule table. Settled rules measure quantities that
// can still move while matches are live; live-safe rules record facts that
// cannot be undone once they happen.
const (
	settled  = true
	liveSafe = false
)

func defaultRules() []Rule { //nolint:funlen // flat rule table
	legendary := model.TierLegendary
	uncommon := model.TierUncommon
	common := model.TierCommon
	oopsie := model.TierOopsie

	return []Rule{
		// Legendary
		Define(1, legendary, "Captain Fantastic", "Your captain scored 20 or more base points.", settled,
			atLeast(captainBase, 20)),
		Define(2, legendary, "Triple Digits", "Finished the gameweek on 100 points or more.", settled,
			atLeast(pointsFinal, 100)),
		Define(3, legendary, "Mega Climber", "Improved your overall rank by 70% or more.", settled,
			percentAtLeast(rankGain, 70)),
		Define(4, legendary, "Hat-Trick Hero", "A starter scored three or more goals.", liveSafe,
			anyOf(starters, goalsAtLeast(3))),
		Define(5, legendary, "Fortress", "Four or more starting defenders kept a clean sheet.", settled,
			countAtLeast(defenders, cleanSheet, 4)),
		Define(6, legendary, "Out of Sight", "Finished 35 or more points above the safety score.", settled,
			atLeast(safetyMargin, 35)),
		Define(7, legendary, "Differential Genius", "A starter owned by under 5% of the elite scored 15 or more.", settled,
			anyOf(starters, differential(0.05, 15))),
		Define(8, legendary, "Forward Frenzy", "Every starting forward scored 10 or more base points.", settled,
			allOf(forwards, baseAtLeast(10))),
		Define(9, legendary, "Midfield Masterclass", "Every starting midfielder scored 10 or more base points.", settled,
			allOf(midfielders, baseAtLeast(10))),
		Define(10, legendary, "No Passengers", "Every starter scored 5 or more base points.", settled,
			allOf(starters, baseAtLeast(5))),
		Define(11, legendary, "Spot Stopper", "A starter saved a penalty.", liveSafe,
			anyOf(starters, savedPenalty)),
		Define(12, legendary, "Bonus Bonanza", "Three starters took maximum bonus.", settled,
			countAtLeast(starters, bonusAtLeast(3), 3)),

		// Uncommon
		Define(13, uncommon, "Poacher's Instinct", "A starting forward scored 15 or more base points.", settled,
			anyOf(forwards, baseAtLeast(15))),
		Define(14, uncommon, "Rocket Climber", "Improved your overall rank by 35% or more.", settled,
			percentAtLeast(rankGain, 35)),
		Define(15, uncommon, "Comfort Zone", "Finished 10 or more points above the safety score.", settled,
			atLeast(safetyMargin, 10)),
		Define(16, uncommon, "Armband Hero", "Your captain scored 12 or more base points.", settled,
			atLeast(captainBase, 12)),
		Define(17, uncommon, "Differential Hunter", "A starter owned by under 10% of the elite scored 10 or more.", settled,
			anyOf(starters, differential(0.10, 10))),
		Define(18, uncommon, "Brace Yourself", "A starter scored two or more goals.", liveSafe,
			anyOf(starters, goalsAtLeast(2))),
		Define(19, uncommon, "Playmaker", "A starter provided two or more assists.", liveSafe,
			anyOf(starters, assistsAtLeast(2))),
		Define(20, uncommon, "Clean Sheet Club", "Three or more starting defenders kept a clean sheet.", settled,
			countAtLeast(defenders, cleanSheet, 3)),
		Define(21, uncommon, "Wall of Saves", "A starting goalkeeper made six or more saves.", liveSafe,
			anyOf(goalkeepers, savesAtLeast(6))),
		Define(22, uncommon, "Deep Squad", "Your bench scored 15 or more points.", settled,
			atLeast(benchPoints, 15)),
		Define(23, uncommon, "Vice Versa", "Your vice-captain outscored your captain.", settled,
			viceOutscoredCaptain()),
		Define(24, uncommon, "Midfield Engine", "Three or more starting midfielders scored a goal.", liveSafe,
			countAtLeast(midfielders, goalsAtLeast(1), 3)),
		Define(25, uncommon, "Stoppers", "Three or more starters earned defensive contribution points.", liveSafe,
			countAtLeast(starters, defensiveAction, 3)),
		Define(26, uncommon, "Goal Rush", "Your starters scored five or more goals between them.", liveSafe,
			sumAtLeast(starters, func(p model.PlayerMetric) int { return p.Goals }, 5)),

		// Common
		Define(27, common, "No-Hit Wonder", "Took no points hit for transfers.", liveSafe,
			equals(hit, 0)),
		Define(28, common, "Safe and Sound", "Finished at least one point above the safety score.", settled,
			atLeast(safetyMargin, 1)),
		Define(29, common, "Green Arrow", "Your overall rank improved.", settled,
			atLeast(rankDelta, 1)),
		Define(30, common, "Climber", "Improved your overall rank by 10% or more.", settled,
			percentAtLeast(rankGain, 10)),
		Define(31, common, "Captain Returns", "Your captain scored 6 or more base points.", settled,
			atLeast(captainBase, 6)),
		Define(32, common, "Half Century", "Finished the gameweek on 50 points or more.", settled,
			atLeast(pointsFinal, 50)),
		Define(33, common, "Provider", "A starter provided an assist.", liveSafe,
			anyOf(starters, assistsAtLeast(1))),
		Define(34, common, "On the Scoresheet", "A starter scored a goal.", liveSafe,
			anyOf(starters, goalsAtLeast(1))),
		Define(35, common, "Bonus Points", "A starter earned bonus points.", settled,
			anyOf(starters, bonusAtLeast(1))),
		Define(36, common, "Iron Men", "Ten or more starters played 60 minutes.", liveSafe,
			countAtLeast(starters, minutesAtLeast(60), 10)),
		Define(37, common, "Safe Hands", "A starting goalkeeper kept a clean sheet.", settled,
			anyOf(goalkeepers, cleanSheet)),
		Define(38, common, "Differential Dabbler", "A starter owned by under 20% of the elite scored 6 or more.", settled,
			anyOf(starters, differential(0.20, 6))),
		Define(39, common, "Double Digits", "Three or more starters scored 10 or more base points.", settled,
			countAtLeast(starters, baseAtLeast(10), 3)),
		Define(40, common, "Captain Scores", "Your captain scored a goal.", liveSafe,
			Check{Pass: func(s *model.TeamSnapshot) bool { return s.Captain != nil && s.Captain.Goals > 0 }}),

		// Oopsie
		Define(41, oopsie, "Armband Blunder", "Your captain scored 2 or fewer base points.", settled,
			withCaptain(atMost(captainBase, 2))),
		Define(42, oopsie, "Seeing Red", "A starter was sent off.", liveSafe,
			anyOf(starters, redCard)),
		Define(43, oopsie, "Wrong Net", "A starter scored an own goal.", liveSafe,
			anyOf(starters, ownGoal)),
		Define(44, oopsie, "Spot Kick Shame", "A starter missed a penalty.", liveSafe,
			anyOf(starters, missedPenalty)),
		Define(45, oopsie, "Hit Happy", "Took a points hit of 8 or more.", liveSafe,
			atMost(hit, -8)),
		Define(46, oopsie, "Danger Zone", "Finished below the safety score.", settled,
			atMost(safetyMargin, -1)),
		Define(47, oopsie, "Freefall", "Your overall rank dropped by 20% or more.", settled,
			percentAtMost(rankGain, -20)),
		Define(48, oopsie, "Referee's Favourite", "Your starters collected three or more yellow cards.", liveSafe,
			sumAtLeast(starters, func(p model.PlayerMetric) int { return p.YellowCards }, 3)),
		Define(49, oopsie, "Leaky Gloves", "A starting goalkeeper conceded four or more.", liveSafe,
			anyOf(goalkeepers, concededAtLeast(4))),
		Define(50, oopsie, "Bench Regret", "A benched player outscored your captain.", settled,
			benchOutscoredCaptain()),
		Define(51, oopsie, "Blank Slate", "Five or more starters scored 2 or fewer base points.", settled,
			countAtLeast(starters, baseAtMost(2), 5)),
		Define(52, oopsie, "Red Arrow", "Your overall rank got worse.", settled,
			atMost(rankDelta, -1)),
	}
}
