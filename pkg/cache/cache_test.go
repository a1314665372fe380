package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetThenGet(t *testing.T) {
	c := New()
	defer c.Close()

	c.SetWithTTL("k", "v", time.Minute)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestGetMissing(t *testing.T) {
	c := New()
	defer c.Close()

	v, ok := c.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestExpiry(t *testing.T) {
	c := New()
	defer c.Close()

	c.SetWithTTL("k", 42, 10*time.Millisecond)
	time.Sleep(25 * time.Millisecond)

	// 过期后多次读取都不能再返回旧值
	for i := 0; i < 3; i++ {
		_, ok := c.Get("k")
		assert.False(t, ok)
	}

	// 首次读取已将过期项物理删除
	assert.Equal(t, 0, c.Count())
}

func TestSetOverwrites(t *testing.T) {
	c := New()
	defer c.Close()

	c.SetWithTTL("k", "old", time.Minute)
	c.SetWithTTL("k", "new", time.Minute)

	v, _ := c.Get("k")
	assert.Equal(t, "new", v)
}

func TestInvalidate(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("k", 1)
	assert.True(t, c.Invalidate("k"))
	assert.False(t, c.Invalidate("k"))

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestInvalidateByPattern(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("kpi_summary_client=42", 1)
	c.Set("kpi_monthly_client=42_year=2026", 2)
	c.Set("kpi_summary_client=7", 3)

	n := c.InvalidateByPattern("client=42")
	assert.Equal(t, 2, n)

	// 无关的key不受影响
	_, ok := c.Get("kpi_summary_client=7")
	assert.True(t, ok)
}

func TestClear(t *testing.T) {
	c := New()
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	assert.Equal(t, 0, c.Count())
}

func TestGetOrCompute(t *testing.T) {
	c := New()
	defer c.Close()

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "computed", nil
	}

	v, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", v)

	// 第二次命中缓存，不再计算
	v, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", v)
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeError(t *testing.T) {
	c := New()
	defer c.Close()

	wantErr := errors.New("query failed")
	_, err := c.GetOrCompute("k", func() (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	// 失败不写入缓存
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestBuildKeyOrderIndependent(t *testing.T) {
	a := BuildKey("kpi", map[string]string{"b": "2", "a": "1"})
	b := BuildKey("kpi", map[string]string{"a": "1", "b": "2"})

	assert.Equal(t, a, b)
	assert.Equal(t, "kpi_a=1_b=2", a)
}

func TestBuildKeyNoParams(t *testing.T) {
	assert.Equal(t, "kpi_summary", BuildKey("kpi_summary", nil))
}

func TestDeleteExpiredLeavesLive(t *testing.T) {
	c := New()
	defer c.Close()

	c.SetWithTTL("dead", 1, 5*time.Millisecond)
	c.SetWithTTL("live", 2, time.Minute)
	time.Sleep(15 * time.Millisecond)

	c.DeleteExpired()

	assert.Equal(t, 1, c.Count())
	_, ok := c.Get("live")
	assert.True(t, ok)
}

func TestCloseIdempotent(t *testing.T) {
	c := New(WithCleanupInterval(time.Minute))

	c.Close()
	assert.NotPanics(t, func() { c.Close() })
}
