package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewTeamSummary(t *testing.T) {
	Convey("Given a bundled team", t, func() {
		c, err := league.Default()
		So(err, ShouldBeNil)
		team, err := c.Lookup("ironwood")
		So(err, ShouldBeNil)

		Convey("When summarized", func() {
			s := types.NewTeamSummary(team)

			Convey("Then the roster is listed with text positions", func() {
				So(s.ID, ShouldEqual, "ironwood")
				So(len(s.Players), ShouldEqual, league.RosterSize)
				b, err := json.Marshal(s.Players[0])
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"position":"PG"`)
			})
		})
	})
}
