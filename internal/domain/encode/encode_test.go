package encode_test

import (
	"testing"

	encode "github.com/isandoval/butaca/internal/domain/encode"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewEncoder(t *testing.T) {
	Convey("Given genre lists from a catalog", t, func() {
		lists := [][]string{
			{"Drama", "Romance"},
			{"Action", "Sci-Fi"},
			{"Drama"},
		}

		Convey("When deriving the vocabulary", func() {
			enc := encode.NewEncoder(lists)

			Convey("Then it should contain the sorted union of labels", func() {
				So(enc.Vocabulary(), ShouldResemble, []string{"Action", "Drama", "Romance", "Sci-Fi"})
				So(enc.Size(), ShouldEqual, 4)
			})

			Convey("Then it should be identical regardless of input order", func() {
				shuffled := encode.NewEncoder([][]string{
					{"Sci-Fi", "Action"},
					{"Romance", "Drama"},
					{"Drama"},
				})
				So(shuffled.Vocabulary(), ShouldResemble, enc.Vocabulary())
			})
		})

		Convey("When the catalog has no labels at all", func() {
			enc := encode.NewEncoder(nil)

			Convey("Then the vocabulary should be empty", func() {
				So(enc.Size(), ShouldEqual, 0)
				So(enc.Encode([]string{"Drama"}), ShouldBeEmpty)
			})
		})

		Convey("When lists contain empty labels", func() {
			enc := encode.NewEncoder([][]string{{"", "Drama", ""}})

			Convey("Then empty labels should not enter the vocabulary", func() {
				So(enc.Vocabulary(), ShouldResemble, []string{"Drama"})
			})
		})
	})
}

func TestEncoderEncode(t *testing.T) {
	Convey("Given an encoder over a fixed vocabulary", t, func() {
		enc := encode.NewEncoder([][]string{
			{"Action", "Adventure", "Drama", "Romance", "Sci-Fi"},
		})

		Convey("When encoding a genre list", func() {
			vec := enc.Encode([]string{"Drama", "Action"})

			Convey("Then it should set exactly the matching coordinates", func() {
				So(vec, ShouldResemble, []float64{1, 0, 1, 0, 0})
			})
		})

		Convey("When encoding with duplicates and a different ordering", func() {
			a := enc.Encode([]string{"Action", "Drama", "Action", "Drama"})
			b := enc.Encode([]string{"Drama", "Action"})

			Convey("Then the vectors should be identical", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When encoding labels outside the vocabulary", func() {
			vec := enc.Encode([]string{"Horror", "Drama", "Telenovela"})

			Convey("Then unknown labels should be silently ignored", func() {
				So(vec, ShouldResemble, []float64{0, 0, 1, 0, 0})
			})
		})

		Convey("When no label matches the vocabulary", func() {
			vec := enc.Encode([]string{"Horror", "Western"})

			Convey("Then the vector should be all zeros", func() {
				So(vec, ShouldResemble, []float64{0, 0, 0, 0, 0})
			})
		})

		Convey("When encoding each catalog item", func() {
			items := [][]string{
				{"Action", "Sci-Fi"},
				{"Drama"},
				{"Romance", "Drama", "Romance"},
			}

			Convey("Then the Hamming weight should match the distinct known labels", func() {
				expected := []int{2, 1, 2}
				for i, labels := range items {
					weight := 0
					for _, x := range enc.Encode(labels) {
						if x == 1 {
							weight++
						}
					}
					So(weight, ShouldEqual, expected[i])
				}
			})
		})
	})
}
