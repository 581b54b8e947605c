package trace_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"mapinfer/trace"
)

func TestSiteIdentification(t *testing.T) {
	Convey("Given an empty trace", t, func() {
		var tr trace.Trace

		Convey("The first occurrence of a static id is 0", func() {
			site := tr.NextSiteID("flip")
			So(site, ShouldResemble, trace.SiteID{StaticID: "flip", Occurrence: 0})
		})

		Convey("Sampling the same primitive three times yields three distinct site ids", func() {
			var sites []trace.SiteID
			for i := 0; i < 3; i++ {
				site := tr.NextSiteID("flip")
				sites = append(sites, site)
				tr = tr.Append(trace.Entry{Site: site, Value: i, PastReward: 0})
			}

			So(sites, ShouldResemble, []trace.SiteID{
				{StaticID: "flip", Occurrence: 0},
				{StaticID: "flip", Occurrence: 1},
				{StaticID: "flip", Occurrence: 2},
			})
			So(len(tr), ShouldEqual, 3)
		})

		Convey("Interleaved static ids are tracked independently", func() {
			s1 := tr.NextSiteID("a")
			tr = tr.Append(trace.Entry{Site: s1})
			s2 := tr.NextSiteID("b")
			tr = tr.Append(trace.Entry{Site: s2})
			s3 := tr.NextSiteID("a")

			So(s1.Occurrence, ShouldEqual, 0)
			So(s2.Occurrence, ShouldEqual, 0)
			So(s3.Occurrence, ShouldEqual, 1)
		})
	})
}
