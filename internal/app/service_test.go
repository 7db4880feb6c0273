package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/okian/gradient/internal/app"
	"github.com/okian/gradient/internal/domain/analysis"
	"github.com/okian/gradient/internal/domain/model"
	"github.com/okian/gradient/internal/domain/prediction"
	"github.com/okian/gradient/internal/domain/recommend"
	"github.com/okian/gradient/internal/domain/schedule"
	"github.com/okian/gradient/internal/domain/types"
	"github.com/okian/gradient/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// Monday 4 March 2024, 08:00 UTC.
var monday = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return monday }

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["started"], ShouldEqual, false)
			So(stats["queueSize"], ShouldEqual, service.DefaultQueueSize)
			So(stats["maxBatchSize"], ShouldEqual, service.DefaultMaxBatchSize)
			So(stats["preferredTime"], ShouldEqual, schedule.DefaultPreferredTime)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithMaxBatchSize(10),
			service.WithJobRetention(time.Minute),
			service.WithSchedulePreferences(30*time.Minute, "evening", true),
		)

		Convey("Then the options are applied", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldEqual, 8)
			So(stats["queueSize"], ShouldEqual, 50_000)
			So(stats["dedupeSize"], ShouldEqual, 25_000)
			So(stats["maxBatchSize"], ShouldEqual, 10)
			So(stats["preferredTime"], ShouldEqual, "evening")
		})
	})

	Convey("Given invalid option values", t, func() {
		svc := service.New(
			service.WithWorkerCount(-1),
			service.WithQueueSize(0),
			service.WithMaxBatchSize(0),
			service.WithLogger(nil),
			service.WithClock(nil),
		)

		Convey("Then defaults are kept", func() {
			stats := svc.GetStats()
			So(stats["workerCount"], ShouldBeGreaterThan, 0)
			So(stats["queueSize"], ShouldEqual, service.DefaultQueueSize)
			So(stats["maxBatchSize"], ShouldEqual, service.DefaultMaxBatchSize)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When job operations are called before Start", func() {
			_, _, submitErr := svc.SubmitJob(ctx, model.Job{Items: []model.JobItem{{ItemID: "a"}}})
			_, getErr := svc.GetJob(ctx, "any")

			Convey("Then ErrNotStarted is returned", func() {
				So(errors.Is(submitErr, service.ErrNotStarted), ShouldBeTrue)
				So(errors.Is(getErr, service.ErrNotStarted), ShouldBeTrue)
			})
		})

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it is marked as started with pipeline stats", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["jobsStored"], ShouldEqual, 0)
				So(stats["jobIDsSeen"], ShouldEqual, int64(0))
			})
		})

		Convey("When stopping a started service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then it is marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And it can be started again", func() {
				So(svc.Start(ctx), ShouldBeNil)
				So(svc.GetStats()["started"], ShouldEqual, true)
			})
		})
	})
}

func TestService_Engine(t *testing.T) {
	Convey("Given a service", t, func() {
		svc := service.New(service.WithClock(fixedClock))
		ctx := context.Background()

		Convey("When analyzing an empty submission", func() {
			res := svc.AnalyzeSubmission(ctx, analysis.Input{Instructions: "Explain photosynthesis"})

			Convey("Then there is no score and zero confidence", func() {
				So(res.Status, ShouldEqual, types.StatusInsufficientData)
				So(res.ScoreRecommendation, ShouldBeNil)
				So(res.Confidence, ShouldEqual, 0)
			})
		})

		Convey("When analyzing a submission that repeats the instructions", func() {
			in := analysis.Input{
				Instructions: "Photosynthesis, chlorophyll, sunlight.",
				Submission:   "Photosynthesis needs chlorophyll and sunlight.",
			}
			res := svc.AnalyzeSubmission(ctx, in)

			Convey("Then coverage is full and the score follows the coverage weight", func() {
				So(res.Status, ShouldEqual, types.StatusOK)
				So(res.Metrics.KeywordCoverage, ShouldEqual, 1)
				So(*res.ScoreRecommendation, ShouldAlmostEqual, 70, 1e-9)
			})
		})

		Convey("When comparing texts", func() {
			Convey("Then identical text scores one and empty text zero", func() {
				So(svc.TextSimilarity(ctx, "the cell divides", "the cell divides"), ShouldAlmostEqual, 1, 1e-9)
				So(svc.TextSimilarity(ctx, "", "anything"), ShouldEqual, 0)
			})
		})

		Convey("When predicting from a rising history", func() {
			history := []prediction.Point{
				{Timestamp: monday, Score: 60},
				{Timestamp: monday.Add(24 * time.Hour), Score: 70},
				{Timestamp: monday.Add(48 * time.Hour), Score: 80},
			}
			res := svc.PredictPerformance(ctx, history)

			Convey("Then the prediction is above the average", func() {
				So(res.Status, ShouldEqual, types.StatusOK)
				So(*res.Trend, ShouldBeGreaterThan, 0)
				So(*res.Prediction, ShouldBeGreaterThanOrEqualTo, *res.CurrentAverage)
			})
		})

		Convey("When predicting from no history", func() {
			res := svc.PredictPerformance(ctx, nil)

			Convey("Then it reports insufficient data", func() {
				So(res.Status, ShouldEqual, types.StatusInsufficientData)
				So(res.Prediction, ShouldBeNil)
			})
		})

		Convey("When recommending for an empty profile", func() {
			recs := svc.GenerateRecommendations(ctx, recommend.StudentData{}, recommend.CourseData{})

			Convey("Then a general recommendation is returned", func() {
				So(recs, ShouldHaveLength, 1)
				So(recs[0].Type, ShouldEqual, recommend.KindGeneral)
			})
		})

		Convey("When scheduling one event without slots", func() {
			events := []schedule.Event{{ID: "essay", Title: "Essay", DurationMinutes: 60}}
			res, err := svc.OptimizeSchedule(ctx, events, schedule.Constraints{}, schedule.Preferences{})

			Convey("Then it lands in the first morning grid slot", func() {
				So(err, ShouldBeNil)
				So(res.Events, ShouldHaveLength, 1)
				So(res.Events[0].StartTime, ShouldEqual, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))
			})
		})

		Convey("When scheduling an event without a duration", func() {
			_, err := svc.OptimizeSchedule(ctx, []schedule.Event{{ID: "bad"}}, schedule.Constraints{}, schedule.Preferences{})

			Convey("Then the duration error is wrapped", func() {
				So(errors.Is(err, schedule.ErrInvalidDuration), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service preferring afternoons", t, func() {
		svc := service.New(
			service.WithClock(fixedClock),
			service.WithSchedulePreferences(0, "afternoon", false),
		)

		Convey("When the request leaves preferences unset", func() {
			res, err := svc.OptimizeSchedule(context.Background(),
				[]schedule.Event{{ID: "a", DurationMinutes: 30}},
				schedule.Constraints{}, schedule.Preferences{})

			Convey("Then the service preference picks the slot", func() {
				So(err, ShouldBeNil)
				So(res.Events[0].StartTime, ShouldEqual, time.Date(2024, 3, 4, 13, 0, 0, 0, time.UTC))
			})
		})
	})
}

func TestService_SubmitJobValidation(t *testing.T) {
	Convey("Given a started service with a small batch limit", t, func() {
		svc := service.New(service.WithWorkerCount(1), service.WithMaxBatchSize(2))
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the batch is empty", func() {
			_, _, err := svc.SubmitJob(ctx, model.Job{JobID: "empty"})

			Convey("Then ErrEmptyBatch is returned", func() {
				So(errors.Is(err, service.ErrEmptyBatch), ShouldBeTrue)
			})
		})

		Convey("When the batch exceeds the limit", func() {
			items := []model.JobItem{{ItemID: "a"}, {ItemID: "b"}, {ItemID: "c"}}
			_, _, err := svc.SubmitJob(ctx, model.Job{JobID: "big", Items: items})

			Convey("Then ErrBatchTooLarge is returned and the id stays free", func() {
				So(errors.Is(err, service.ErrBatchTooLarge), ShouldBeTrue)
				_, getErr := svc.GetJob(ctx, "big")
				So(errors.Is(getErr, service.ErrJobNotFound), ShouldBeTrue)
			})
		})

		Convey("When the job id is omitted", func() {
			rec, dup, err := svc.SubmitJob(ctx, model.Job{Items: []model.JobItem{{ItemID: "a"}}})

			Convey("Then an id is generated", func() {
				So(err, ShouldBeNil)
				So(dup, ShouldBeFalse)
				So(rec.JobID, ShouldNotBeEmpty)
				So(rec.Total, ShouldEqual, 1)
			})
		})
	})
}
