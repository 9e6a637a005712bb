package tiers

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/gwbadge/internal/domain/model"
)

func titles(states []model.State) []string {
	out := make([]string, 0, len(states))
	for _, st := range states {
		out = append(out, st.Title)
	}
	return out
}

func TestOrganize(t *testing.T) {
	Convey("Given states across tiers", t, func() {
		states := []model.State{
			{ID: 1, Title: "Zeta", Tier: model.TierCommon},
			{ID: 2, Title: "Beta", Tier: model.TierCommon, Pending: true},
			{ID: 3, Title: "Alpha", Tier: model.TierCommon},
			{ID: 4, Title: "Yak", Tier: model.TierCommon, Unlocked: true},
			{ID: 5, Title: "Gold", Tier: model.TierLegendary, Unlocked: true},
			{ID: 6, Title: "Oops", Tier: model.TierOopsie, Unlocked: true},
			{ID: 7, Title: "Uh-oh", Tier: model.TierOopsie},
		}

		Convey("When organized in full", func() {
			groups, overall := Organize(states)

			Convey("Then tiers follow display order", func() {
				So(groups, ShouldHaveLength, 4)
				So(groups[0].Tier, ShouldEqual, model.TierLegendary)
				So(groups[1].Tier, ShouldEqual, model.TierUncommon)
				So(groups[2].Tier, ShouldEqual, model.TierCommon)
				So(groups[3].Tier, ShouldEqual, model.TierOopsie)
			})

			Convey("Then states sort unlocked, pending, locked, then by title", func() {
				So(titles(groups[2].States), ShouldResemble, []string{"Yak", "Beta", "Alpha", "Zeta"})
			})

			Convey("Then empty tiers have empty state lists", func() {
				So(groups[1].States, ShouldNotBeNil)
				So(groups[1].Total, ShouldEqual, 0)
			})

			Convey("Then overall counts split out Oopsies", func() {
				So(overall, ShouldResemble, Overall{
					Earned: 2, Total: 5, EarnedOopsies: 1, TotalOopsies: 2,
					EarnedAll: 3, TotalAll: 7,
				})
			})
		})

		Convey("When organized for the earned view", func() {
			groups, overall := Organize(states, EarnedOnly())

			Convey("Then only unlocked states remain", func() {
				So(titles(groups[2].States), ShouldResemble, []string{"Yak"})
			})

			Convey("Then counts still describe the full tier", func() {
				So(groups[2].Earned, ShouldEqual, 1)
				So(groups[2].Total, ShouldEqual, 4)
				So(overall.Total, ShouldEqual, 5)
				So(overall.TotalAll, ShouldEqual, 7)
			})
		})
	})
}
