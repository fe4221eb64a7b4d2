package seeddata_test

import (
	"bufio"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/podium/internal/domain/parse"
	"github.com/okian/podium/internal/seeddata"
)

func TestWriteUsers(t *testing.T) {
	Convey("Given the user generator", t, func() {
		Convey("When writing a batch of users", func() {
			var sb strings.Builder
			So(seeddata.WriteUsers(&sb, 20), ShouldBeNil)

			Convey("Then every line parses as a valid record", func() {
				scanner := bufio.NewScanner(strings.NewReader(sb.String()))
				count := 0
				for scanner.Scan() {
					count++
					rec, err := parse.UserLine(scanner.Text())
					So(err, ShouldBeNil)
					So(rec.ID, ShouldStartWith, "user:")
					So(rec.Attrs["first_name"], ShouldNotBeEmpty)
					So(rec.Attrs["last_name"], ShouldNotBeEmpty)
					So(rec.Attrs["gender"], ShouldBeIn, "female", "male")
					So(rec.Attrs["email"], ShouldEndWith, "@example.com")
					So(rec.Attrs["latitude"], ShouldNotBeEmpty)
					So(rec.Attrs["longitude"], ShouldNotBeEmpty)
				}
				So(count, ShouldEqual, 20)
			})
		})
	})
}

func TestWriteScores(t *testing.T) {
	Convey("Given the score generator", t, func() {
		Convey("When writing a batch of scores", func() {
			var sb strings.Builder
			So(seeddata.WriteScores(&sb, 50, 3, 10, 1000), ShouldBeNil)

			lines := strings.Split(strings.TrimSpace(sb.String()), "\n")

			Convey("Then a header plus count rows are emitted", func() {
				So(lines[0], ShouldEqual, "leaderboard,user,score")
				So(lines, ShouldHaveLength, 51)
			})

			Convey("And every row parses as a valid score", func() {
				for _, line := range lines[1:] {
					row, err := parse.Score(strings.Split(line, ","))
					So(err, ShouldBeNil)
					So(row.Leaderboard, ShouldStartWith, "leaderboard:")
					So(row.UserID, ShouldStartWith, "user:")
					So(row.Score, ShouldBeGreaterThanOrEqualTo, 0)
					So(row.Score, ShouldBeLessThan, 1000)
				}
			})
		})
	})
}
