package equipment

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v2"
)

type mockSDK struct {
	builds int
	opened []*benchController
	fw     string
}

func (s *mockSDK) BuildDeviceList() error {
	s.builds++
	return nil
}

func (s *mockSDK) Open(rec DeviceRecord) (Controller, error) {
	ctrl := &benchController{fw: s.fw}
	s.opened = append(s.opened, ctrl)
	return ctrl, nil
}

func TestBench(t *testing.T) {
	var config BenchConfig
	if err := yaml.Unmarshal([]byte(testYaml), &config); err != nil {
		t.Fatal(err)
	}

	Convey("A bench connects a driver per configured device", t, func() {
		sdk := &mockSDK{}
		bench, err := NewBench(sdk, config, nil)
		So(err, ShouldBeNil)
		So(bench.Devices, ShouldHaveLength, 3)
		So(len(sdk.opened), ShouldEqual, 3)

		Convey("drivers match the model lookup", func() {
			So(bench.Devices["stage-az"], ShouldHaveSameTypeAs, &Stage{})
			So(bench.Devices["flip-nd"], ShouldHaveSameTypeAs, &Flipper{})
			So(bench.Devices["cvf"], ShouldHaveSameTypeAs, &Wheel{})
		})

		Convey("every controller got an event callback registered", func() {
			for _, ctrl := range sdk.opened {
				So(ctrl.callback, ShouldNotBeNil)
			}
		})

		Convey("the vendor device list is built exactly once", func() {
			So(sdk.builds, ShouldEqual, 1)
			_, err := bench.Connect("extra", stageRecord(), nil)
			So(err, ShouldBeNil)
			So(sdk.builds, ShouldEqual, 1)
		})

		Convey("lookup by alias", func() {
			_, err := bench.Device("stage-az")
			So(err, ShouldBeNil)
			_, err = bench.Device("nope")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("A bench refuses controllers with unsupported firmware", t, func() {
		sdk := &mockSDK{fw: "0.3.0"}
		_, err := NewBench(sdk, config, nil)
		So(err, ShouldNotBeNil)
	})
}
