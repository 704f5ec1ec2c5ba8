package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grcup/apexcoach/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	Convey("Given no config file and no env overrides", t, func() {
		os.Unsetenv("APEX_CONFIG")
		os.Unsetenv("APEX_ADDR")
		os.Unsetenv("APEX_DATASET_PATH")

		Convey("When loading", func() {
			cfg, err := config.Load(t.Context())

			Convey("Then defaults should apply", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8077")
				So(cfg.Tracks, ShouldHaveLength, 7)
				So(cfg.Tracks, ShouldContain, "Road America")
				So(cfg.ForestTrees, ShouldEqual, 200)
				So(cfg.MaxOpportunities, ShouldEqual, 3)
			})
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	Convey("Given APEX_ environment overrides", t, func() {
		t.Setenv("APEX_ADDR", ":9000")
		t.Setenv("APEX_DATASET_PATH", "/tmp/corners.csv")
		t.Setenv("APEX_LOG_LEVEL", "debug")

		Convey("When loading", func() {
			cfg, err := config.Load(t.Context())

			Convey("Then env values should win over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":9000")
				So(cfg.DatasetPath, ShouldEqual, "/tmp/corners.csv")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})
	})
}

func TestLoadYAMLFile(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "apex.yaml")
		yaml := "addr: \":7070\"\nforest_trees: 50\ncluster_k: 4\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)
		t.Setenv("APEX_CONFIG", path)

		Convey("When loading", func() {
			cfg, err := config.Load(t.Context())

			Convey("Then file values should apply over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.ForestTrees, ShouldEqual, 50)
				So(cfg.ClusterK, ShouldEqual, 4)
				// untouched default
				So(cfg.TestRatio, ShouldEqual, 0.2)
			})
		})

		Convey("When the file path is wrong", func() {
			t.Setenv("APEX_CONFIG", filepath.Join(dir, "missing.yaml"))
			_, err := config.Load(t.Context())
			So(err, ShouldNotBeNil)
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given invalid overrides", t, func() {
		Convey("An empty addr should be rejected", func() {
			t.Setenv("APEX_ADDR", "")
			_, err := config.Load(t.Context())
			So(err, ShouldNotBeNil)
		})

		Convey("A zero tree count should be rejected", func() {
			t.Setenv("APEX_FOREST_TREES", "0")
			_, err := config.Load(t.Context())
			So(err, ShouldNotBeNil)
		})

		Convey("An out-of-range test ratio should be rejected", func() {
			t.Setenv("APEX_TEST_RATIO", "1.5")
			_, err := config.Load(t.Context())
			So(err, ShouldNotBeNil)
		})
	})
}
