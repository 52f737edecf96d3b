package balance_test

import (
	"context"
	"testing"

	"github.com/okian/rondo/internal/domain/balance"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSplitTeams(t *testing.T) {
	Convey("Given two strong and two weak players", t, func() {
		env := rating.NewEnv()
		players := []model.PlayerID{"s1", "s2", "w1", "w2"}
		beliefs := map[model.PlayerID]rating.Belief{
			"s1": {Mu: 30, Sigma: 5},
			"s2": {Mu: 30, Sigma: 5},
			"w1": {Mu: 10, Sigma: 5},
			"w2": {Mu: 10, Sigma: 5},
		}

		Convey("When splitting the queue", func() {
			res, err := balance.SplitTeams(context.Background(), env, players, beliefs, nil)
			So(err, ShouldBeNil)

			Convey("Then each team pairs one strong with one weak player", func() {
				So(len(res.TeamA), ShouldEqual, 2)
				So(len(res.TeamB), ShouldEqual, 2)
				So(teamMu(res.TeamA, beliefs), ShouldEqual, 40.0)
				So(teamMu(res.TeamB, beliefs), ShouldEqual, 40.0)
			})

			Convey("And the stacked split scores strictly worse", func() {
				stacked := env.Quality(
					[]rating.Belief{beliefs["s1"], beliefs["s2"]},
					[]rating.Belief{beliefs["w1"], beliefs["w2"]},
				)
				So(res.Quality, ShouldBeGreaterThan, stacked)
			})

			Convey("And the first player is pinned to team A", func() {
				So(res.TeamA[0], ShouldEqual, model.PlayerID("s1"))
			})

			Convey("And the search visited C(3,1) candidates", func() {
				So(res.Searched, ShouldEqual, 3)
			})
		})

		Convey("When called twice with identical input", func() {
			first, err := balance.SplitTeams(context.Background(), env, players, beliefs, nil)
			So(err, ShouldBeNil)
			second, err := balance.SplitTeams(context.Background(), env, players, beliefs, nil)
			So(err, ShouldBeNil)

			Convey("Then the output is identical, tie-break included", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When all players are indistinguishable", func() {
			same := map[model.PlayerID]rating.Belief{
				"s1": {Mu: 25, Sigma: 5}, "s2": {Mu: 25, Sigma: 5},
				"w1": {Mu: 25, Sigma: 5}, "w2": {Mu: 25, Sigma: 5},
			}
			res, err := balance.SplitTeams(context.Background(), env, players, same, nil)
			So(err, ShouldBeNil)

			Convey("Then the first-encountered partition wins the tie", func() {
				So(res.TeamA, ShouldResemble, []model.PlayerID{"s1", "s2"})
				So(res.TeamB, ShouldResemble, []model.PlayerID{"w1", "w2"})
			})
		})
	})

	Convey("Given mean overrides", t, func() {
		env := rating.NewEnv()
		players := []model.PlayerID{"s1", "s2", "w1", "w2"}
		beliefs := map[model.PlayerID]rating.Belief{
			"s1": {Mu: 30, Sigma: 5},
			"s2": {Mu: 30, Sigma: 5},
			"w1": {Mu: 10, Sigma: 5},
			"w2": {Mu: 10, Sigma: 5},
		}

		Convey("When an override flips the skill order", func() {
			res, err := balance.SplitTeams(context.Background(), env, players, beliefs, map[model.PlayerID]float64{
				"s1": 10,
				"w1": 30,
			})
			So(err, ShouldBeNil)

			Convey("Then the pairing follows the overridden means", func() {
				// Strong players are now s2 and w1; they must be separated.
				sameTeam := contains(res.TeamA, "s2") == contains(res.TeamA, "w1")
				So(sameTeam, ShouldBeFalse)
			})

			Convey("And the input belief map is untouched", func() {
				So(beliefs["s1"].Mu, ShouldEqual, 30.0)
				So(beliefs["w1"].Mu, ShouldEqual, 10.0)
			})
		})

		Convey("When an override names a player outside the queue", func() {
			_, err := balance.SplitTeams(context.Background(), env, players, beliefs, map[model.PlayerID]float64{
				"ghost": 20,
			})

			Convey("Then it fails with ErrUnknownPlayer", func() {
				So(err, ShouldEqual, balance.ErrUnknownPlayer)
			})
		})
	})

	Convey("Given invalid queue sizes", t, func() {
		env := rating.NewEnv()

		Convey("Then an odd queue is rejected", func() {
			_, err := balance.SplitTeams(context.Background(), env, []model.PlayerID{"a", "b", "c"}, nil, nil)
			So(err, ShouldEqual, balance.ErrInvalidQueueSize)
		})

		Convey("Then an empty queue is rejected", func() {
			_, err := balance.SplitTeams(context.Background(), env, nil, nil, nil)
			So(err, ShouldEqual, balance.ErrInvalidQueueSize)
		})
	})

	Convey("Given players with no stored belief", t, func() {
		env := rating.NewEnv()
		players := []model.PlayerID{"a", "b", "c", "d"}

		Convey("When splitting with an empty belief map", func() {
			res, err := balance.SplitTeams(context.Background(), env, players, nil, nil)
			So(err, ShouldBeNil)

			Convey("Then everyone gets the prior and a split is returned", func() {
				So(len(res.TeamA), ShouldEqual, 2)
				So(res.Quality, ShouldBeGreaterThan, 0)
			})
		})
	})
}

func teamMu(ids []model.PlayerID, beliefs map[model.PlayerID]rating.Belief) float64 {
	var sum float64
	for _, id := range ids {
		sum += beliefs[id].Mu
	}
	return sum
}

func contains(ids []model.PlayerID, id model.PlayerID) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}
