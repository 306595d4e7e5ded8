package similarity_test

import (
	"testing"

	similarity "github.com/isandoval/butaca/internal/domain/similarity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestKNearest(t *testing.T) {
	Convey("Given an index over a small catalog", t, func() {
		// Vocabulary order: Action, Drama, Romance, Sci-Fi
		ix := similarity.New([][]float64{
			{1, 0, 0, 1}, // 0: Action+Sci-Fi
			{0, 1, 0, 0}, // 1: Drama
			{0, 1, 1, 0}, // 2: Drama+Romance
			{1, 0, 0, 0}, // 3: Action
		})

		Convey("When querying with an Action vector", func() {
			got := ix.KNearest([]float64{1, 0, 0, 0}, 4)

			Convey("Then distances should be non-decreasing", func() {
				for i := 1; i < len(got); i++ {
					So(got[i].Distance, ShouldBeGreaterThanOrEqualTo, got[i-1].Distance)
				}
			})

			Convey("Then the exact-match item should come first", func() {
				So(got[0].Index, ShouldEqual, 3)
				So(got[0].Distance, ShouldAlmostEqual, 0, 1e-12)
				So(got[0].Similarity(), ShouldAlmostEqual, 1, 1e-12)
			})

			Convey("Then the partial match should precede the disjoint items", func() {
				So(got[1].Index, ShouldEqual, 0)
				So(got[1].Similarity(), ShouldAlmostEqual, 0.7071067811865475, 1e-12)
			})

			Convey("Then disjoint items should keep catalog order at distance 1", func() {
				So(got[2].Index, ShouldEqual, 1)
				So(got[3].Index, ShouldEqual, 2)
				So(got[2].Distance, ShouldAlmostEqual, 1, 1e-12)
				So(got[3].Distance, ShouldAlmostEqual, 1, 1e-12)
			})
		})

		Convey("When k exceeds the catalog size", func() {
			got := ix.KNearest([]float64{0, 1, 0, 0}, 200)

			Convey("Then at most catalog-size results are returned", func() {
				So(got, ShouldHaveLength, 4)
			})
		})

		Convey("When k is smaller than the catalog", func() {
			got := ix.KNearest([]float64{0, 1, 0, 0}, 2)

			So(got, ShouldHaveLength, 2)
			So(got[0].Index, ShouldEqual, 1)
		})

		Convey("When k is zero or negative", func() {
			So(ix.KNearest([]float64{1, 0, 0, 0}, 0), ShouldBeEmpty)
			So(ix.KNearest([]float64{1, 0, 0, 0}, -3), ShouldBeEmpty)
		})

		Convey("When the query vector is all zeros", func() {
			got := ix.KNearest([]float64{0, 0, 0, 0}, 10)

			Convey("Then every item is returned with similarity 0", func() {
				So(got, ShouldHaveLength, 4)
				for i, n := range got {
					So(n.Index, ShouldEqual, i) // catalog order preserved
					So(n.Distance, ShouldEqual, 1.0)
					So(n.Similarity(), ShouldEqual, 0.0)
				}
			})
		})

		Convey("When querying repeatedly with the same vector", func() {
			a := ix.KNearest([]float64{1, 1, 0, 0}, 4)
			b := ix.KNearest([]float64{1, 1, 0, 0}, 4)

			Convey("Then the results should be identical", func() {
				So(a, ShouldResemble, b)
			})
		})
	})

	Convey("Given an index over an empty catalog", t, func() {
		ix := similarity.New(nil)

		Convey("Then any query returns no neighbors", func() {
			So(ix.Len(), ShouldEqual, 0)
			So(ix.KNearest([]float64{1}, 5), ShouldBeEmpty)
		})
	})
}
