package dataset_test

import (
	"errors"
	"testing"

	"github.com/grcup/apexcoach/internal/ml/dataset"
	. "github.com/smartystreets/goconvey/convey"
)

func buildRows(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i), float64(i) * 2}
		y[i] = float64(i)
	}
	return X, y
}

func TestTrainTestSplit(t *testing.T) {
	Convey("Given a 100-row dataset", t, func() {
		X, y := buildRows(100)

		Convey("When splitting with a 0.2 ratio", func() {
			s, err := dataset.TrainTestSplit(X, y, 0.2, 42)

			Convey("Then the partition sizes match the ratio", func() {
				So(err, ShouldBeNil)
				So(s.XTest, ShouldHaveLength, 20)
				So(s.XTrain, ShouldHaveLength, 80)
				So(s.YTest, ShouldHaveLength, 20)
				So(s.YTrain, ShouldHaveLength, 80)
			})

			Convey("And every row lands in exactly one partition", func() {
				So(err, ShouldBeNil)
				seen := make(map[float64]int, 100)
				for _, v := range s.YTrain {
					seen[v]++
				}
				for _, v := range s.YTest {
					seen[v]++
				}
				So(seen, ShouldHaveLength, 100)
				for _, count := range seen {
					So(count, ShouldEqual, 1)
				}
			})

			Convey("And rows stay aligned with their targets", func() {
				So(err, ShouldBeNil)
				for i, row := range s.XTrain {
					So(row[0], ShouldEqual, s.YTrain[i])
				}
				for i, row := range s.XTest {
					So(row[0], ShouldEqual, s.YTest[i])
				}
			})
		})

		Convey("When splitting twice with the same seed", func() {
			s1, err1 := dataset.TrainTestSplit(X, y, 0.2, 42)
			s2, err2 := dataset.TrainTestSplit(X, y, 0.2, 42)

			Convey("Then the partitions are identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(s1.YTest, ShouldResemble, s2.YTest)
				So(s1.YTrain, ShouldResemble, s2.YTrain)
			})
		})

		Convey("When splitting with different seeds", func() {
			s1, _ := dataset.TrainTestSplit(X, y, 0.2, 1)
			s2, _ := dataset.TrainTestSplit(X, y, 0.2, 2)

			Convey("Then the holdout differs", func() {
				So(s1.YTest, ShouldNotResemble, s2.YTest)
			})
		})
	})
}

func TestTrainTestSplitRejects(t *testing.T) {
	Convey("Given invalid split inputs", t, func() {
		X, y := buildRows(10)

		Convey("An empty dataset is rejected", func() {
			_, err := dataset.TrainTestSplit(nil, nil, 0.2, 42)
			So(errors.Is(err, dataset.ErrEmptyDataset), ShouldBeTrue)
		})

		Convey("Mismatched rows and targets are rejected", func() {
			_, err := dataset.TrainTestSplit(X, y[:5], 0.2, 42)
			So(errors.Is(err, dataset.ErrDimensionMismatch), ShouldBeTrue)
		})

		Convey("An out-of-range ratio is rejected", func() {
			_, err := dataset.TrainTestSplit(X, y, 1.5, 42)
			So(errors.Is(err, dataset.ErrInvalidRatio), ShouldBeTrue)

			_, err = dataset.TrainTestSplit(X, y, 0, 42)
			So(errors.Is(err, dataset.ErrInvalidRatio), ShouldBeTrue)
		})

		Convey("A split that would empty one side is rejected", func() {
			X2, y2 := buildRows(3)
			_, err := dataset.TrainTestSplit(X2, y2, 0.1, 42)
			So(errors.Is(err, dataset.ErrTooFewRows), ShouldBeTrue)
		})
	})
}
