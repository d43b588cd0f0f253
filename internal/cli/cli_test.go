package cli

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	service "github.com/okian/redpacket/internal/app"
	"github.com/okian/redpacket/internal/config"
	"github.com/okian/redpacket/internal/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

// writeConfig writes a config file that keeps every output inside dir.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "redpacket.yaml")
	body := "history_file: " + filepath.Join(dir, "history.json") + "\nlog_level: error\n" + extra
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(stdin string, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestDrawCommand(t *testing.T) {
	Convey("Given a config pointing at a temp dir", t, func() {
		dir := t.TempDir()
		cfg := writeConfig(t, dir, "")
		historyFile := filepath.Join(dir, "history.json")

		Convey("When two draws are made and saved", func() {
			out, _, err := run("", "--config", cfg, "draw", "--amount", "100", "--people", "3", "--rounds", "2", "--seed", "7", "--save")

			Convey("Then each draw and the history report are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Draw 1:\nShares:\nParticipant 1: ")
				So(out, ShouldContainSubstring, "Draw 2:")
				So(out, ShouldContainSubstring, "Record 2:\nTotal: 100.00, Participants: 3\n")
				So(out, ShouldContainSubstring, "History saved to "+historyFile)
			})

			Convey("And the history command reads the file back", func() {
				So(err, ShouldBeNil)
				hist, _, err := run("", "--config", cfg, "history", "--file", historyFile)
				So(err, ShouldBeNil)
				So(hist, ShouldContainSubstring, "Record 1:\nTotal: 100.00, Participants: 3\n")
				So(strings.Count(hist, "------------------------------"), ShouldEqual, 2)
			})
		})

		Convey("When the same seed is used twice", func() {
			a, _, err1 := run("", "--config", cfg, "draw", "--amount", "50", "--people", "4", "--seed", "99")
			b, _, err2 := run("", "--config", cfg, "draw", "--amount", "50", "--people", "4", "--seed", "99")

			Convey("Then the output is identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(a, ShouldEqual, b)
			})
		})

		Convey("When the input is invalid", func() {
			_, stderr, err1 := run("", "--config", cfg, "draw", "--amount", "abc", "--people", "3")
			_, _, err2 := run("", "--config", cfg, "draw", "--amount", "10", "--people", "0")

			Convey("Then the validation error is returned and nothing is saved", func() {
				So(errors.Is(err1, service.ErrInvalidInput), ShouldBeTrue)
				So(stderr, ShouldContainSubstring, "Error:")
				So(errors.Is(err2, service.ErrNonPositive), ShouldBeTrue)
				_, statErr := os.Stat(historyFile)
				So(errors.Is(statErr, fs.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the participant count is above max_participants", func() {
			capped := writeConfig(t, dir, "max_participants: 5\n")
			_, _, err1 := run("", "--config", capped, "draw", "--amount", "10", "--people", "6")
			_, _, err2 := run("", "--config", capped, "simulate", "--amount", "10", "--people", "6", "--rounds", "1")

			Convey("Then both commands reject it", func() {
				So(errors.Is(err1, service.ErrInvalidInput), ShouldBeTrue)
				So(errors.Is(err2, simulation.ErrOutOfRange), ShouldBeTrue)
			})
		})

		Convey("When the log level flag is unknown", func() {
			_, _, err := run("", "--config", cfg, "--log-level", "loud", "draw", "--amount", "1", "--people", "1")

			Convey("Then the command fails with a config error", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})
	})
}

func TestSessionCommand(t *testing.T) {
	Convey("Given a session fed from stdin", t, func() {
		dir := t.TempDir()
		cfg := writeConfig(t, dir, "")
		input := strings.Join([]string{
			"history",
			"100 3",
			"foo",
			"0 3",
			"ten 3",
			"1e400 2",
			"1 2000000000",
			"history",
			"save",
			"quit",
			"20 2",
		}, "\n")

		out, _, err := run(input, "--config", cfg, "session", "--seed", "3")

		Convey("Then draws, errors and commands are handled in order", func() {
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "No records yet.\nShares:\n")
			So(out, ShouldContainSubstring, "Error: expected AMOUNT PEOPLE")
			So(out, ShouldContainSubstring, "must be greater than zero")
			So(out, ShouldContainSubstring, "invalid input")
			So(out, ShouldContainSubstring, "is too large")
			So(out, ShouldContainSubstring, "exceeds the limit of 100000")
			So(out, ShouldContainSubstring, "Record 1:\nTotal: 100.00, Participants: 3\n")
			So(out, ShouldNotContainSubstring, "Record 2:")
			So(out, ShouldContainSubstring, "History saved to")
		})

		Convey("And input after quit is ignored", func() {
			So(err, ShouldBeNil)
			hist, _, err := run("", "--config", cfg, "history")
			So(err, ShouldBeNil)
			So(strings.Count(hist, "Record "), ShouldEqual, 1)
		})
	})

	Convey("Given a session with autosave", t, func() {
		dir := t.TempDir()
		cfg := writeConfig(t, dir, "autosave: true\n")

		_, _, err := run("5 2\n6 3\n", "--config", cfg, "session")

		Convey("Then every draw is already on disk at EOF", func() {
			So(err, ShouldBeNil)
			hist, _, err := run("", "--config", cfg, "history")
			So(err, ShouldBeNil)
			So(hist, ShouldContainSubstring, "Record 2:\nTotal: 6.00, Participants: 3\n")
		})
	})
}

func TestHistoryCommand(t *testing.T) {
	Convey("Given no saved history", t, func() {
		dir := t.TempDir()
		cfg := writeConfig(t, dir, "")

		Convey("When the history is printed", func() {
			_, _, err := run("", "--config", cfg, "history")

			Convey("Then the missing file is reported", func() {
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When an empty document is printed", func() {
			path := filepath.Join(dir, "empty.yaml")
			So(os.WriteFile(path, []byte("[]\n"), 0o600), ShouldBeNil)
			out, _, err := run("", "--config", cfg, "history", "--file", path)

			Convey("Then it says so", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "No records.\n")
			})
		})
	})
}

func TestSimulateCommand(t *testing.T) {
	Convey("Given a config that exports metrics", t, func() {
		dir := t.TempDir()
		prom := filepath.Join(dir, "redpacket.prom")
		cfg := writeConfig(t, dir, "metrics_textfile: "+prom+"\n")

		Convey("When one cent is simulated among a hundred", func() {
			out, _, err := run("", "--config", cfg, "simulate", "--amount", "0.01", "--people", "100", "--rounds", "50", "--workers", "2", "--seed", "1")

			Convey("Then the summary keeps the total", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Total: 0.01, Participants: 100, Rounds: 50\n")
				So(out, ShouldContainSubstring, "Shares: 5000\n")
				So(out, ShouldContainSubstring, "Max deviation: 0.00\n")
			})

			Convey("And the metrics textfile is written", func() {
				So(err, ShouldBeNil)
				data, err := os.ReadFile(prom)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "redpacket_simulator_draws_total")
				So(string(data), ShouldContainSubstring, "redpacket_simulator_zero_shares_total")
			})
		})

		Convey("When the amount is invalid", func() {
			_, _, err := run("", "--config", cfg, "simulate", "--amount", "-1", "--people", "3")

			Convey("Then it is rejected", func() {
				So(errors.Is(err, service.ErrNonPositive), ShouldBeTrue)
			})
		})
	})
}
