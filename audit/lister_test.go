package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/tj/assert"
)

func TestListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("concatenates pages in order", func(t *testing.T) {
		items := []int{1, 2, 3, 4, 5}
		var calls int
		got, err := ListAll(ctx, func(_ context.Context, token *string) ([]int, *string, error) {
			calls++
			return page(items, 2, token)
		})
		assert.Nil(t, err)
		assert.Equal(t, items, got)
		assert.Equal(t, 3, calls)
	})

	t.Run("keeps duplicates", func(t *testing.T) {
		items := []string{"a", "a", "b"}
		got, err := ListAll(ctx, func(_ context.Context, token *string) ([]string, *string, error) {
			return page(items, 1, token)
		})
		assert.Nil(t, err)
		assert.Equal(t, items, got)
	})

	t.Run("empty token terminates", func(t *testing.T) {
		var calls int
		got, err := ListAll(ctx, func(_ context.Context, _ *string) ([]string, *string, error) {
			calls++
			empty := ""
			return []string{"only"}, &empty, nil
		})
		assert.Nil(t, err)
		assert.Equal(t, []string{"only"}, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("first page token is nil", func(t *testing.T) {
		first := strptr("unset")
		_, err := ListAll(ctx, func(_ context.Context, token *string) ([]string, *string, error) {
			first = token
			return nil, nil, nil
		})
		assert.Nil(t, err)
		assert.Nil(t, first)
	})

	t.Run("error mid-listing discards progress", func(t *testing.T) {
		boom := errors.New("throttled")
		var calls int
		got, err := ListAll(ctx, func(_ context.Context, token *string) ([]int, *string, error) {
			calls++
			if calls == 2 {
				return nil, nil, boom
			}
			return page([]int{1, 2, 3, 4}, 2, token)
		})
		assert.True(t, errors.Is(err, boom))
		assert.Nil(t, got)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("drains both relations", func(t *testing.T) {
		src := newFakeSource(
			topics("T1", "T2", "T3"),
			[]Subscription{sub("T1", "a@x.com"), sub("T1", "+15551234567"), sub("T2", "a@x.com")},
		)
		inv, err := Load(ctx, src)
		assert.Nil(t, err)
		assert.Equal(t, src.topics, inv.Topics)
		assert.Equal(t, src.subscriptions, inv.Subscriptions)
	})

	t.Run("listing failure is fatal", func(t *testing.T) {
		src := newFakeSource(topics("T1"), nil)
		src.listErr = errors.New("access denied")
		_, err := Load(ctx, src)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, src.listErr))
		assert.Equal(t, 1, src.pageCalls)
	})
}
