// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package builders

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

var (
	linuxRel = TestConfiguration{"Linux", "", "release"}
	linuxDbg = TestConfiguration{"Linux", "", "debug"}
	macRel   = TestConfiguration{"Mac", "", "release"}
	winRel   = TestConfiguration{"Win", "", "release"}
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	Convey("Default registry", t, func() {
		r := Default()
		So(r.Names(), ShouldResemble, []string{"linux_chromium_rel_ng", "mac_chromium_rel_ng", "win7_chromium_rel_ng"})

		config, ok := r.Configuration("mac_chromium_rel_ng")
		So(ok, ShouldBeTrue)
		So(config, ShouldResemble, macRel)

		pool, ok := r.Pool("win7_chromium_rel_ng")
		So(ok, ShouldBeTrue)
		So(pool, ShouldEqual, "tryserver.chromium.win")

		_, ok = r.Configuration("android_blink_rel")
		So(ok, ShouldBeFalse)

		So(r.Configurations().Equal(NewConfigurationSet(linuxRel, macRel, winRel)), ShouldBeTrue)
		So(r.NameSet().Has("linux_chromium_rel_ng"), ShouldBeTrue)
		So(r.Builders()[1], ShouldResemble, Builder{"mac_chromium_rel_ng", macRel, "tryserver.chromium.mac"})

		Convey("returns copies", func() {
			r.Names()[0] = "mutated"
			r.Configurations().Add(linuxDbg)
			So(r.Names()[0], ShouldEqual, "linux_chromium_rel_ng")
			So(r.Configurations().Has(linuxDbg), ShouldBeFalse)
		})
	})

	Convey("NewRegistry validates", t, func() {
		_, err := NewRegistry()
		So(err, ShouldErrLike, "no builders")

		_, err = NewRegistry(Builder{Name: "a", Configuration: linuxRel})
		So(err, ShouldErrLike, `builder "a": no pool`)

		_, err = NewRegistry(Builder{Name: "a", Configuration: TestConfiguration{BuildType: "release"}, Pool: "try"})
		So(err, ShouldErrLike, "no version specifier")

		_, err = NewRegistry(
			Builder{Name: "a", Configuration: linuxRel, Pool: "try"},
			Builder{Name: "a", Configuration: macRel, Pool: "try"},
		)
		So(err, ShouldErrLike, "listed twice")
	})

	Convey("Load", t, func() {
		Convey("parses builders.json", func() {
			r, err := Load([]byte(`{
				"linux_trusty_blink_rel": {"port_name": "linux-trusty", "specifiers": ["Trusty", "Release"], "is_try_builder": true, "master": "tryserver.blink"},
				"mac_dbg": {"specifiers": ["Mac10.12", "x86_64", "Debug"], "bucket": "try"},
				"WebKit Linux Trusty": {"specifiers": ["Trusty", "Release"], "is_try_builder": false, "master": "chromium.webkit"}
			}`))
			So(err, ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"linux_trusty_blink_rel", "mac_dbg"})

			config, _ := r.Configuration("mac_dbg")
			So(config, ShouldResemble, TestConfiguration{"Mac10.12", "x86_64", "debug"})
			pool, _ := r.Pool("linux_trusty_blink_rel")
			So(pool, ShouldEqual, "tryserver.blink")
		})

		Convey("parses YAML", func() {
			r, err := Load([]byte("linux_rel:\n  specifiers: [Linux, Release]\n  bucket: try\n"))
			So(err, ShouldBeNil)
			So(r.Names(), ShouldResemble, []string{"linux_rel"})
		})

		Convey("rejects bad specifiers", func() {
			_, err := Load([]byte(`{"b": {"specifiers": ["Linux"], "bucket": "try"}}`))
			So(err, ShouldErrLike, `builder "b"`)
		})

		Convey("rejects malformed input", func() {
			_, err := Load([]byte(`[1, 2`))
			So(err, ShouldErrLike, "parse builders")
		})
	})
}

func TestConfigurationSet(t *testing.T) {
	t.Parallel()

	Convey("ConfigurationSet", t, func() {
		s := NewConfigurationSet(winRel, linuxRel)
		So(s.Len(), ShouldEqual, 2)
		So(s.Has(linuxRel), ShouldBeTrue)
		So(s.Has(macRel), ShouldBeFalse)

		s.AddAll(NewConfigurationSet(macRel, linuxRel))
		So(s.ToSortedSlice(), ShouldResemble, []TestConfiguration{linuxRel, macRel, winRel})
		So(s.Equal(NewConfigurationSet(linuxRel, macRel, winRel)), ShouldBeTrue)
		So(s.Equal(NewConfigurationSet(linuxRel, macRel)), ShouldBeFalse)
		So(linuxRel.String(), ShouldEqual, "<Linux, release>")
	})
}

func TestConverter(t *testing.T) {
	t.Parallel()

	Convey("SpecifierSets", t, func() {
		Convey("over release-only platforms", func() {
			c := NewConverter(NewConfigurationSet(linuxRel, macRel, winRel))

			So(c.SpecifierSets(NewConfigurationSet()), ShouldBeNil)
			So(c.SpecifierSets(NewConfigurationSet(linuxRel)), ShouldResemble, [][]string{{"Linux"}})
			So(c.SpecifierSets(NewConfigurationSet(macRel, linuxRel)), ShouldResemble, [][]string{{"Linux", "Mac"}})
			So(c.SpecifierSets(NewConfigurationSet(linuxRel, macRel, winRel)), ShouldResemble, [][]string{{}})
		})

		Convey("with several build types", func() {
			c := NewConverter(NewConfigurationSet(linuxRel, linuxDbg, macRel))

			So(c.SpecifierSets(NewConfigurationSet(linuxRel, linuxDbg)), ShouldResemble, [][]string{{"Linux"}})
			So(c.SpecifierSets(NewConfigurationSet(linuxDbg)), ShouldResemble, [][]string{{"Linux", "Debug"}})
			So(c.SpecifierSets(NewConfigurationSet(linuxRel, macRel)), ShouldResemble,
				[][]string{{"Linux", "Release"}, {"Mac"}})
		})

		Convey("with variants", func() {
			mac64 := TestConfiguration{"Mac", "x86_64", "release"}
			mac32 := TestConfiguration{"Mac", "x86", "release"}
			c := NewConverter(NewConfigurationSet(linuxRel, mac32, mac64))

			So(c.SpecifierSets(NewConfigurationSet(mac32, mac64)), ShouldResemble, [][]string{{"Mac"}})
			So(c.SpecifierSets(NewConfigurationSet(mac64)), ShouldResemble, [][]string{{"Mac", "x86_64"}})
		})
	})
}
