package rating_test

import (
	"testing"

	"github.com/okian/tribunal/internal/domain/rating"
	"github.com/okian/tribunal/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOutcomeFor(t *testing.T) {
	Convey("Given ternary verdicts", t, func() {
		Convey("When the queried player is player1", func() {
			So(rating.OutcomeFor(types.VerdictPlayerOne, true), ShouldEqual, rating.OutcomeFavorable)
			So(rating.OutcomeFor(types.VerdictPlayerTwo, true), ShouldEqual, rating.OutcomeUnfavorable)
			So(rating.OutcomeFor(types.VerdictTie, true), ShouldEqual, rating.OutcomeNeutral)
		})

		Convey("When the queried player is player2 the mapping inverts", func() {
			So(rating.OutcomeFor(types.VerdictPlayerOne, false), ShouldEqual, rating.OutcomeUnfavorable)
			So(rating.OutcomeFor(types.VerdictPlayerTwo, false), ShouldEqual, rating.OutcomeFavorable)
			So(rating.OutcomeFor(types.VerdictTie, false), ShouldEqual, rating.OutcomeNeutral)
		})
	})
}

func TestPolicyPoint(t *testing.T) {
	Convey("Given the default policy (offset 5, range 2-10, full spread)", t, func() {
		policy := rating.NewPolicy()

		Convey("Then a neutral outcome lands exactly at the offset", func() {
			So(policy.Point(rating.OutcomeNeutral), ShouldEqual, 5.0)
		})

		Convey("Then a favorable outcome lands at the chart max", func() {
			So(policy.Point(rating.OutcomeFavorable), ShouldEqual, 10.0)
		})

		Convey("Then an unfavorable outcome lands at the chart min", func() {
			So(policy.Point(rating.OutcomeUnfavorable), ShouldEqual, 2.0)
		})
	})

	Convey("Given a half-spread policy", t, func() {
		policy := rating.NewPolicy(rating.WithSpread(0.5))

		Convey("Then directional outcomes displace half the distance to the bounds", func() {
			So(policy.Point(rating.OutcomeFavorable), ShouldEqual, 7.5)
			So(policy.Point(rating.OutcomeUnfavorable), ShouldEqual, 3.5)
			So(policy.Point(rating.OutcomeNeutral), ShouldEqual, 5.0)
		})
	})

	Convey("Given custom chart bounds", t, func() {
		policy := rating.NewPolicy(
			rating.WithOffset(50),
			rating.WithChartBounds(0, 100),
		)

		Convey("Then points respect the configured range", func() {
			So(policy.Point(rating.OutcomeNeutral), ShouldEqual, 50.0)
			So(policy.Point(rating.OutcomeFavorable), ShouldEqual, 100.0)
			So(policy.Point(rating.OutcomeUnfavorable), ShouldEqual, 0.0)
		})
	})

	Convey("Given an offset outside the chart range", t, func() {
		policy := rating.NewPolicy(rating.WithOffset(42))

		Convey("Then the offset is clamped to the chart max", func() {
			So(policy.Point(rating.OutcomeNeutral), ShouldEqual, 10.0)
		})
	})
}

func TestPolicyScore(t *testing.T) {
	Convey("Given the default policy", t, func() {
		policy := rating.NewPolicy()

		Convey("When no vote contributes", func() {
			score, scored := policy.Score(nil)

			Convey("Then the result is unscored, not zero-valued", func() {
				So(scored, ShouldBeFalse)
				So(score, ShouldEqual, 0.0)
			})
		})

		Convey("When one favorable vote contributes", func() {
			score, scored := policy.Score([]rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 1},
			})
			So(scored, ShouldBeTrue)
			So(score, ShouldEqual, 10.0)
		})

		Convey("When only tie votes contribute", func() {
			score, scored := policy.Score([]rating.Input{
				{Value: types.VerdictTie, QueriedIsPlayer1: true, Weight: 1},
				{Value: types.VerdictTie, QueriedIsPlayer1: false, Weight: 3},
			})

			Convey("Then the score sits exactly at the offset", func() {
				So(scored, ShouldBeTrue)
				So(score, ShouldEqual, 5.0)
			})
		})

		Convey("When favorable and unfavorable votes balance", func() {
			score, scored := policy.Score([]rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 1},
				{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: true, Weight: 1},
			})
			So(scored, ShouldBeTrue)
			So(score, ShouldEqual, 6.0) // (10 + 2) / 2
		})

		Convey("When one reviewer carries double weight", func() {
			double, _ := policy.Score([]rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 2},
				{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: true, Weight: 1},
			})
			twice, _ := policy.Score([]rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 1},
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 1},
				{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: true, Weight: 1},
			})

			Convey("Then a weight-2 vote equals two weight-1 votes", func() {
				So(double, ShouldEqual, twice)
			})
		})

		Convey("When votes carry unusable weights", func() {
			score, scored := policy.Score([]rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 0},
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: -2},
			})

			Convey("Then they are ignored and the result stays unscored", func() {
				So(scored, ShouldBeFalse)
				So(score, ShouldEqual, 0.0)
			})
		})

		Convey("When the same inputs are scored twice", func() {
			inputs := []rating.Input{
				{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 1.5},
				{Value: types.VerdictTie, QueriedIsPlayer1: false, Weight: 2},
				{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: false, Weight: 0.5},
			}
			first, _ := policy.Score(inputs)
			second, _ := policy.Score(inputs)

			Convey("Then the result is deterministic", func() {
				So(first, ShouldEqual, second)
			})
		})

		Convey("Then every score stays inside the chart bounds", func() {
			combos := [][]rating.Input{
				{{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 10}},
				{{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: true, Weight: 10}},
				{
					{Value: types.VerdictPlayerOne, QueriedIsPlayer1: true, Weight: 3},
					{Value: types.VerdictTie, QueriedIsPlayer1: true, Weight: 1},
					{Value: types.VerdictPlayerTwo, QueriedIsPlayer1: false, Weight: 2},
				},
			}
			for _, inputs := range combos {
				score, scored := policy.Score(inputs)
				So(scored, ShouldBeTrue)
				So(score, ShouldBeGreaterThanOrEqualTo, 2.0)
				So(score, ShouldBeLessThanOrEqualTo, 10.0)
			}
		})
	})
}
