package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/gradient/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 100)
			convey.So(cfg.JobRetention, convey.ShouldEqual, time.Hour)
			convey.So(cfg.MinBreakMinutes, convey.ShouldEqual, 15)
			convey.So(cfg.PreferredTime, convey.ShouldEqual, "morning")
			convey.So(cfg.SkipWeekends, convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := config.New(context.Background())

		cases := map[string]func(*config.Config){
			"addr must not be empty":             func(c *config.Config) { c.Addr = "" },
			"queue_size must be positive":        func(c *config.Config) { c.QueueSize = 0 },
			"worker_count must be positive":      func(c *config.Config) { c.WorkerCount = -1 },
			"max_batch_size must be positive":    func(c *config.Config) { c.MaxBatchSize = 0 },
			"job_retention must not be negative": func(c *config.Config) { c.JobRetention = -time.Second },
			"min_break_minutes":                  func(c *config.Config) { c.MinBreakMinutes = -5 },
			"preferred_time":                     func(c *config.Config) { c.PreferredTime = "noon" },
			"log_format":                         func(c *config.Config) { c.LogFormat = "xml" },
		}

		convey.Convey("When a field is broken", func() {
			for msg, breakIt := range cases {
				c := *cfg
				breakIt(&c)
				err := c.Validate()

				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, msg)
			}
		})
	})
}
