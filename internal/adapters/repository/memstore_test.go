package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/perfscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func session(id string, employees int) Session {
	return Session{
		ID:        id,
		CreatedAt: time.Unix(0, 0),
		Result: model.ProcessingResult{
			Success: true,
			Data:    &model.ProcessedData{Metadata: model.Metadata{TotalEmployees: employees}},
		},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := NewMemoryStore(WithCapacity(2))

		Convey("Then unknown ids are not found", func() {
			_, err := store.Get(ctx, "nope")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(errors.Is(store.Delete(ctx, "nope"), ErrNotFound), ShouldBeTrue)
			So(store.Count(ctx), ShouldEqual, 0)
		})

		Convey("Then an empty id is rejected", func() {
			So(errors.Is(store.Save(ctx, Session{}), ErrInvalidID), ShouldBeTrue)
		})

		Convey("When more sessions than capacity are saved", func() {
			So(store.Save(ctx, session("a", 1)), ShouldBeNil)
			So(store.Save(ctx, session("b", 2)), ShouldBeNil)
			So(store.Save(ctx, session("c", 3)), ShouldBeNil)

			Convey("Then the oldest is evicted", func() {
				So(store.Count(ctx), ShouldEqual, 2)
				_, err := store.Get(ctx, "a")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				got, err := store.Get(ctx, "c")
				So(err, ShouldBeNil)
				So(got.Result.Data.Metadata.TotalEmployees, ShouldEqual, 3)
			})

			Convey("Then the listing is newest first", func() {
				list := store.List(ctx)
				So(list, ShouldHaveLength, 2)
				So(list[0].ID, ShouldEqual, "c")
				So(list[0].Employees, ShouldEqual, 3)
				So(list[1].ID, ShouldEqual, "b")
			})
		})

		Convey("When an id is saved twice", func() {
			So(store.Save(ctx, session("a", 1)), ShouldBeNil)
			So(store.Save(ctx, session("b", 2)), ShouldBeNil)
			So(store.Save(ctx, session("a", 5)), ShouldBeNil)
			So(store.Save(ctx, session("c", 3)), ShouldBeNil)

			Convey("Then it is replaced and counts as newest", func() {
				got, err := store.Get(ctx, "a")
				So(err, ShouldBeNil)
				So(got.Result.Data.Metadata.TotalEmployees, ShouldEqual, 5)
				_, err = store.Get(ctx, "b")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When a session is deleted", func() {
			So(store.Save(ctx, session("a", 1)), ShouldBeNil)
			So(store.Delete(ctx, "a"), ShouldBeNil)
			So(store.Count(ctx), ShouldEqual, 0)
			So(store.List(ctx), ShouldBeEmpty)
		})
	})
}

func TestMemoryStoreConcurrency(t *testing.T) {
	Convey("Given concurrent writers and readers", t, func() {
		ctx := context.Background()
		store := NewMemoryStore(WithCapacity(10))
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				_ = store.Save(ctx, session(fmt.Sprintf("s%d", i), i))
			}(i)
			go func() {
				defer wg.Done()
				_ = store.List(ctx)
			}()
		}
		wg.Wait()

		Convey("Then capacity is respected", func() {
			So(store.Count(ctx), ShouldEqual, 10)
			So(store.List(ctx), ShouldHaveLength, 10)
		})
	})
}
