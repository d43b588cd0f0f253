package repository_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/redpacket/internal/adapters/repository"
	"github.com/okian/redpacket/internal/domain/history"
	"github.com/okian/redpacket/internal/domain/money"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleHistory() *history.History {
	h := history.New()
	h.Append(history.NewRecord(money.MustParse("100"), 3, []money.Amount{
		money.MustParse("20.01"), money.MustParse("32"), money.MustParse("47.99"),
	}))
	h.Append(history.NewRecord(money.MustParse("0.01"), 2, []money.Amount{
		money.MustParse("0"), money.MustParse("0.01"),
	}))
	return h
}

func TestFileStore_JSON(t *testing.T) {
	Convey("Given a JSON file store", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "red_packet_history.json")
		store, err := repository.NewFileStore(path)
		So(err, ShouldBeNil)
		So(store.Format(), ShouldEqual, repository.FormatJSON)

		Convey("When a single record history is saved", func() {
			h := history.New()
			h.Append(history.NewRecord(money.MustParse("100"), 3, []money.Amount{
				money.MustParse("20.01"), money.MustParse("32"), money.MustParse("47.99"),
			}))
			So(store.Save(ctx, h.Snapshot()), ShouldBeNil)

			Convey("Then the file is indented JSON with numeric fields", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `[
    {
        "total_amount": 100,
        "participant_count": 3,
        "shares": [
            20.01,
            32,
            47.99
        ]
    }
]
`)
			})
		})

		Convey("When a history is saved and loaded", func() {
			h := sampleHistory()
			So(store.Save(ctx, h.Snapshot()), ShouldBeNil)
			doc, err := store.Load(ctx)

			Convey("Then the same records come back in the same order", func() {
				So(err, ShouldBeNil)
				restored := history.FromDocument(doc)
				So(restored.Len(), ShouldEqual, 2)
				So(restored.Render(), ShouldResemble, h.Render())

				first := restored.Records()[0]
				So(first.TotalAmount().Equal(money.MustParse("100")), ShouldBeTrue)
				So(first.ParticipantCount(), ShouldEqual, 3)
				So(first.Shares()[2].Equal(money.MustParse("47.99")), ShouldBeTrue)
			})
		})

		Convey("When an empty history is saved", func() {
			So(store.Save(ctx, nil), ShouldBeNil)
			doc, err := store.Load(ctx)

			Convey("Then an empty document is loaded", func() {
				So(err, ShouldBeNil)
				So(doc, ShouldNotBeNil)
				So(len(doc), ShouldEqual, 0)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := store.Load(ctx)

			Convey("Then a read error wrapping not-exist is returned", func() {
				So(errors.Is(err, repository.ErrReadHistory), ShouldBeTrue)
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the file holds malformed JSON", func() {
			So(os.WriteFile(path, []byte(`[{"total_amount": "abc"}]`), 0o600), ShouldBeNil)
			_, err := store.Load(ctx)

			Convey("Then a read error is returned", func() {
				So(errors.Is(err, repository.ErrReadHistory), ShouldBeTrue)
			})
		})
	})
}

func TestFileStore_YAML(t *testing.T) {
	Convey("Given a YAML file store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "history.yml")
		store, err := repository.NewFileStore(path)
		So(err, ShouldBeNil)
		So(store.Format(), ShouldEqual, repository.FormatYAML)

		Convey("When a history is saved and loaded", func() {
			h := sampleHistory()
			So(store.Save(ctx, h.Snapshot()), ShouldBeNil)
			doc, err := store.Load(ctx)

			Convey("Then it round trips", func() {
				So(err, ShouldBeNil)
				So(history.FromDocument(doc).Render(), ShouldResemble, h.Render())
			})

			Convey("And the file uses the same keys", func() {
				data, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "total_amount: 100")
				So(string(data), ShouldContainSubstring, "participant_count: 3")
				So(string(data), ShouldContainSubstring, "shares:")
			})
		})
	})
}

func TestFileStore_Failures(t *testing.T) {
	Convey("Given a store with previously saved content", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "history.json")
		good, err := repository.NewFileStore(path)
		So(err, ShouldBeNil)
		So(good.Save(ctx, sampleHistory().Snapshot()), ShouldBeNil)
		before, err := os.ReadFile(path)
		So(err, ShouldBeNil)

		Convey("When a save fails while encoding", func() {
			bad, err := repository.NewFileStore(path, repository.WithFormat("xml"))
			So(err, ShouldBeNil)
			err = bad.Save(ctx, history.New().Snapshot())

			Convey("Then the error is reported and the old file is untouched", func() {
				So(errors.Is(err, repository.ErrWriteHistory), ShouldBeTrue)
				So(errors.Is(err, repository.ErrUnknownFormat), ShouldBeTrue)

				after, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(after), ShouldEqual, string(before))
			})

			Convey("And no temp file is left behind", func() {
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 1)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			err := good.Save(cctx, history.New().Snapshot())

			Convey("Then nothing is written", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				after, _ := os.ReadFile(path)
				So(string(after), ShouldEqual, string(before))
			})
		})
	})

	Convey("Given a path inside a missing directory", t, func() {
		store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "missing", "history.json"))
		So(err, ShouldBeNil)

		Convey("Then saving reports the underlying failure", func() {
			err := store.Save(context.Background(), sampleHistory().Snapshot())
			So(errors.Is(err, repository.ErrWriteHistory), ShouldBeTrue)
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
		})
	})

	Convey("Given an empty path", t, func() {
		_, err := repository.NewFileStore("  ")

		Convey("Then the store is rejected", func() {
			So(errors.Is(err, repository.ErrEmptyPath), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		f, err := repository.ParseFormat("YML")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, repository.FormatYAML)

		f, err = repository.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, repository.Format(""))

		_, err = repository.ParseFormat("toml")
		So(errors.Is(err, repository.ErrUnknownFormat), ShouldBeTrue)

		So(repository.FormatFor("a/b/history.txt"), ShouldEqual, repository.FormatJSON)
	})
}
