package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/lectern-cli/lectern/playback"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func drain(m *MPV) []playback.Event {
	var events []playback.Event
	for {
		select {
		case ev := <-m.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func startFile(id int) map[string]interface{} {
	return map[string]interface{}{"event": "start-file", "playlist_entry_id": float64(id)}
}

func endFile(id int, reason, fileErr string) map[string]interface{} {
	return map[string]interface{}{
		"event":             "end-file",
		"playlist_entry_id": float64(id),
		"reason":            reason,
		"file_error":        fileErr,
	}
}

func TestMPVEvents(t *testing.T) {
	Convey("Given an mpv output with two loads in flight", t, func() {
		m := NewMPV("")
		a := playback.Tag{Locator: "a.mp3", Generation: 1}
		b := playback.Tag{Locator: "b.mp3", Generation: 2}
		m.bind(1, a)
		m.bind(2, b)

		Convey("Ready is tagged with the entry that loaded", func() {
			m.handle("start-file", startFile(1))
			m.handle("file-loaded", nil)
			m.handle("start-file", startFile(2))
			m.handle("file-loaded", nil)

			events := drain(m)
			So(events, ShouldHaveLength, 2)
			So(events[0].Tag, ShouldResemble, a)
			So(events[1].Tag, ShouldResemble, b)
		})

		Convey("Progress carries the last known duration", func() {
			m.handle("start-file", startFile(2))
			m.handle("duration", 120.0)
			m.handle("time-pos", 30.0)
			m.handle("time-pos", nil)

			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0], ShouldResemble, playback.Progress(b, 30, 120))
		})

		Convey("eof-reached ends the current entry", func() {
			m.handle("start-file", startFile(1))
			m.handle("eof-reached", false)
			m.handle("eof-reached", true)

			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0].Kind, ShouldEqual, playback.EventEnded)
			So(events[0].Tag, ShouldResemble, a)
		})

		Convey("A replaced entry is reported as aborted", func() {
			m.handle("end-file", endFile(1, "stop", ""))

			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0].Err.Kind, ShouldEqual, playback.KindAborted)
			So(events[0].Tag, ShouldResemble, a)
		})

		Convey("Load failures are classified", func() {
			m.handle("end-file", endFile(2, "error", "loading failed"))

			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0].Err.Kind, ShouldEqual, playback.KindNetwork)
			So(events[0].Err.Locator, ShouldEqual, "b.mp3")
		})

		Convey("Unknown entries are ignored", func() {
			m.handle("end-file", endFile(9, "error", "loading failed"))
			So(drain(m), ShouldBeEmpty)
		})
	})

	Convey("Given mpv reports the file before loadfile returns", t, func() {
		m := NewMPV("")
		tag := playback.Tag{Locator: "late.mp3", Generation: 3}

		m.handle("start-file", startFile(5))
		m.handle("file-loaded", nil)
		So(drain(m), ShouldBeEmpty)

		Convey("Ready is announced once the entry is bound", func() {
			m.bind(5, tag)
			m.bind(5, tag)

			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0], ShouldResemble, playback.Ready(tag))
		})
	})

	Convey("Given a pending load and no loadfile reply id", t, func() {
		m := NewMPV("")
		tag := playback.Tag{Locator: "old.mp3", Generation: 1}
		m.pending = mo.Some(tag)
		m.handle("start-file", startFile(3))
		m.handle("file-loaded", nil)

		Convey("The next started entry takes the pending tag", func() {
			events := drain(m)
			So(events, ShouldHaveLength, 1)
			So(events[0].Tag, ShouldResemble, tag)
			So(m.pending.IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestClassifyFileError(t *testing.T) {
	Convey("Given mpv file errors", t, func() {
		So(classifyFileError("unrecognized file format"), ShouldEqual, playback.KindUnsupportedFormat)
		So(classifyFileError("no audio or video data played"), ShouldEqual, playback.KindDecode)
		So(classifyFileError("audio output initialization failed"), ShouldEqual, playback.KindDevice)
		So(classifyFileError("loading failed"), ShouldEqual, playback.KindNetwork)
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Given media targets", t, func() {
		Convey("Web and file urls pass", func() {
			for _, u := range []string{"https://cdn.example.com/a.mp3", "http://x/b.ogg", "file:///tmp/c.mp3"} {
				got, err := sanitizeMediaTarget(u)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, u)
			}
		})

		Convey("Local paths are cleaned", func() {
			got, err := sanitizeMediaTarget(" ./lessons/../a.mp3 ")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "a.mp3")
		})

		Convey("Flags, control characters and other schemes are rejected", func() {
			for _, u := range []string{"", "--script=x.lua", "a\nb", "ftp://x/a.mp3"} {
				_, err := sanitizeMediaTarget(u)
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestProcessEvent(t *testing.T) {
	Convey("Given a listener", t, func() {
		var names []string
		el := NewEventListener("", func(name string, _ interface{}) {
			names = append(names, name)
		})

		el.processEvent(`{"event":"property-change","id":1,"name":"time-pos","data":1.5}`)
		el.processEvent(`{"request_id":0,"error":"success"}`)
		el.processEvent(`{"event":"file-loaded"}`)
		el.processEvent(`not json`)

		So(names, ShouldResemble, []string{"time-pos", "file-loaded"})
	})
}

func TestSendCommand(t *testing.T) {
	Convey("Given a socket that interleaves events with replies", t, func() {
		path := filepath.Join(os.TempDir(), fmt.Sprintf("lectern-test-%d.sock", os.Getpid()))
		_ = os.Remove(path)
		ln, err := net.Listen("unix", path)
		So(err, ShouldBeNil)
		defer ln.Close()
		defer os.Remove(path)

		go func() {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()

			line, err := bufio.NewReader(conn).ReadBytes('\n')
			if err != nil {
				return
			}
			var cmd ipcCommand
			if json.Unmarshal(line, &cmd) != nil {
				return
			}
			fmt.Fprintf(conn, "{\"event\":\"idle\"}\n")
			fmt.Fprintf(conn, "{\"request_id\":%d,\"error\":\"success\",\"data\":{\"playlist_entry_id\":7}}\n", cmd.RequestID)
		}()

		data, err := doSendCommand(path, []interface{}{"loadfile", "a.mp3", "replace"})

		Convey("The matching reply is returned", func() {
			So(err, ShouldBeNil)
			id, ok := entryID(data)
			So(ok, ShouldBeTrue)
			So(id, ShouldEqual, int64(7))
		})
	})
}
