package main

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveResponseFiles(t *testing.T) {
	Convey("resolveResponseFiles", t, func() {
		dir := t.TempDir()

		Convey("returns one entry per non-blank, non-comment line", func() {
			rf := filepath.Join(dir, "files.rsp")
			writeFile(t, rf, "a.sv\n# a comment\n\nb.sv\n")

			out, err := resolveResponseFiles([]string{rf}, map[string]bool{})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []string{"a.sv", "b.sv"})
		})

		Convey("expands an @-prefixed line as a nested response file", func() {
			inner := filepath.Join(dir, "inner.rsp")
			writeFile(t, inner, "b.sv\nc.sv\n")
			outer := filepath.Join(dir, "outer.rsp")
			writeFile(t, outer, "a.sv\n@"+inner+"\n")

			out, err := resolveResponseFiles([]string{outer}, map[string]bool{})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []string{"a.sv", "b.sv", "c.sv"})
		})

		Convey("reports a cycle as an error instead of recursing forever", func() {
			a := filepath.Join(dir, "a.rsp")
			b := filepath.Join(dir, "b.rsp")
			writeFile(t, a, "@"+b+"\n")
			writeFile(t, b, "@"+a+"\n")

			_, err := resolveResponseFiles([]string{a}, map[string]bool{})
			So(err, ShouldNotBeNil)
		})

		Convey("the same response file may appear twice on independent, non-cyclic chains", func() {
			shared := filepath.Join(dir, "shared.rsp")
			writeFile(t, shared, "x.sv\n")
			top := filepath.Join(dir, "top.rsp")
			writeFile(t, top, "@"+shared+"\n@"+shared+"\n")

			out, err := resolveResponseFiles([]string{top}, map[string]bool{})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []string{"x.sv", "x.sv"})
		})

		Convey("errors when the response file does not exist", func() {
			_, err := resolveResponseFiles([]string{filepath.Join(dir, "missing.rsp")}, map[string]bool{})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestScanDirs(t *testing.T) {
	Convey("scanDirs", t, func() {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "b.sv"), "")
		writeFile(t, filepath.Join(dir, "a.svh"), "")
		writeFile(t, filepath.Join(dir, "notes.txt"), "")
		os.Mkdir(filepath.Join(dir, "sub"), 0755)

		Convey("finds only recognized SV extensions, sorted, non-recursively", func() {
			out, err := scanDirs([]string{dir})
			So(err, ShouldBeNil)
			So(out, ShouldResemble, []string{
				filepath.Join(dir, "a.svh"),
				filepath.Join(dir, "b.sv"),
			})
		})

		Convey("errors on a directory that does not exist", func() {
			_, err := scanDirs([]string{filepath.Join(dir, "nope")})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestCommonAncestor(t *testing.T) {
	Convey("commonAncestor", t, func() {
		Convey("returns the deepest directory containing every input", func() {
			common, err := commonAncestor([]string{
				filepath.FromSlash("/repo/rtl/a.sv"),
				filepath.FromSlash("/repo/rtl/sub/b.sv"),
			})
			So(err, ShouldBeNil)
			So(common, ShouldEqual, filepath.FromSlash("/repo/rtl"))
		})

		Convey("falls back to the root when inputs share nothing but the filesystem root", func() {
			common, err := commonAncestor([]string{
				filepath.FromSlash("/repo/a.sv"),
				filepath.FromSlash("/other/b.sv"),
			})
			So(err, ShouldBeNil)
			So(common, ShouldEqual, string(filepath.Separator))
		})

		Convey("errors on an empty input list", func() {
			_, err := commonAncestor(nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestMirrorPath(t *testing.T) {
	Convey("mirrorPath re-roots an input path under base, preserving its ancestor-relative path", t, func() {
		got, err := mirrorPath(
			filepath.FromSlash("/repo/rtl"),
			filepath.FromSlash("/work/minimized"),
			filepath.FromSlash("/repo/rtl/sub/b.sv"),
		)
		So(err, ShouldBeNil)
		So(got, ShouldEqual, filepath.FromSlash("/work/minimized/sub/b.sv"))
	})
}
