package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "1.a.z", CompactRID(BuildRID(1, 10, 35)))
	assert.Equal(t, "1.-2s.z", CompactRID("1:-100:35"))
	assert.Equal(t, "not-a-rid", CompactRID("not-a-rid"))
	assert.Equal(t, "1:x:3", CompactRID("1:x:3"))
	assert.Empty(t, CompactRID("  "))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "ab\tc", Sanitize("a\x00b\tc\x7f"))
	assert.Equal(t, "Galaga", Sanitize("Gal\u200baga"))
	assert.Equal(t, "Пин", SanitizeLimit("Пинбол", 3))
	assert.Empty(t, SanitizeLimit("x", 0))
}

func TestSummarizeStrings(t *testing.T) {
	s, truncated := SummarizeStrings([]string{"a", "b", "c"}, 2)
	assert.Equal(t, "a, b", s)
	assert.True(t, truncated)

	s, truncated = SummarizeStrings([]string{"a"}, 2)
	assert.Equal(t, "a", s)
	assert.False(t, truncated)
}

func TestMetaUpdatesKeepEarlierFields(t *testing.T) {
	ctx := WithMeta(context.Background(), Meta{RID: "1:2:3", UpdateID: 1, UserID: 3, ChatID: 2})
	ctx = WithHandler(ctx, "conversation")
	ctx = WithState(ctx, "await_exhibit")

	assert.Equal(t, Meta{
		RID:      "1:2:3",
		UpdateID: 1,
		UserID:   3,
		ChatID:   2,
		Handler:  "conversation",
		State:    "await_exhibit",
	}, MetaFrom(ctx))
	assert.Equal(t, Meta{}, MetaFrom(context.Background()))
	assert.Nil(t, FromContext(context.Background()))
	assert.Equal(t, "fail", Status(assert.AnError))
	assert.Equal(t, "ok", Status(nil))
}

func TestMetaOmitsZeroFields(t *testing.T) {
	assert.Empty(t, Meta{}.attrs())
	attrs := Meta{UserID: 5, ChatID: 5}.attrs()
	if assert.Len(t, attrs, 1) {
		assert.Equal(t, "user_id", attrs[0].Key)
	}
}

func TestDurationKey(t *testing.T) {
	assert.Equal(t, "duration_ms", durationKey("duration"))
	assert.Equal(t, "startup_duration_ms", durationKey("startup_duration"))
	assert.Equal(t, "elapsed_ms", durationKey("elapsed_ms"))
}
