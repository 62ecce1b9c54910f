package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak.dev/arrivals/model"
	"durak.dev/arrivals/store"
)

type stubResolver struct {
	result model.Result
	calls  int
	stops  []string
}

func (s *stubResolver) Resolve(ctx context.Context, stopCode string) model.Result {
	s.calls++
	s.stops = append(s.stops, stopCode)
	return s.result
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
}

func botFixture() (*Bot, *stubResolver, store.Store) {
	resolver := &stubResolver{
		result: model.Result{
			StationName: "AVCILAR KAMPÜS",
			Records: []model.Record{
				{Line: "142", Destination: "Boğazköy", ETAMinutes: 1, ClockTime: "14:31"},
				{Line: "76D", Destination: "Taksim", ETAMinutes: 4, ClockTime: "14:34"},
				{Line: "400A", Destination: "Bahçeşehir", ETAMinutes: 12, ClockTime: "14:42"},
			},
			AsOf:   fixedNow(),
			Source: model.SourceMobileAPI,
		},
	}

	st := store.NewMemoryStore()
	b := New(resolver, st)
	b.TimeNow = fixedNow

	return b, resolver, st
}

func TestSetStopCommand(t *testing.T) {
	b, _, st := botFixture()
	ctx := context.Background()

	reply := b.HandleMessage(ctx, "user1", "/durak 151434")
	assert.Contains(t, reply, "151434")

	station, ok, err := st.Get("user1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "151434", station.StopCode)
}

func TestSetStopWithoutCode(t *testing.T) {
	b, _, _ := botFixture()
	reply := b.HandleMessage(context.Background(), "user1", "/durak")
	assert.Contains(t, reply, "kod")
}

func TestQueryWithoutSavedStop(t *testing.T) {
	b, resolver, _ := botFixture()
	reply := b.HandleMessage(context.Background(), "user1", "/otobusler")
	assert.Contains(t, reply, "/durak")
	assert.Equal(t, 0, resolver.calls)
}

func TestQuerySavedStop(t *testing.T) {
	b, resolver, st := botFixture()
	ctx := context.Background()

	b.HandleMessage(ctx, "user1", "/durak 151434")
	reply := b.HandleMessage(ctx, "user1", "/otobusler")

	assert.Equal(t, []string{"151434"}, resolver.stops)
	assert.Contains(t, reply, "AVCILAR KAMPÜS")
	assert.Contains(t, reply, "142")
	assert.Contains(t, reply, "76D")

	// Station name learned from the result sticks.
	station, ok, err := st.Get("user1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AVCILAR KAMPÜS", station.DisplayName)
}

func TestPastedURL(t *testing.T) {
	b, resolver, st := botFixture()
	ctx := context.Background()

	reply := b.HandleMessage(ctx, "user1",
		"https://iett.istanbul/StationDetail?dkod=151434&stationname=AVCILAR%20KAMP%C3%9CS")

	// The URL both saves the stop and queries it.
	assert.Equal(t, 1, resolver.calls)
	assert.Contains(t, reply, "142")

	station, ok, err := st.Get("user1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "151434", station.StopCode)
	assert.Equal(t, "AVCILAR KAMPÜS", station.DisplayName)
}

func TestBareStopCode(t *testing.T) {
	b, _, st := botFixture()

	reply := b.HandleMessage(context.Background(), "user1", "151434")
	assert.Contains(t, reply, "151434")

	station, ok, err := st.Get("user1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "151434", station.StopCode)
}

func TestShortNumberIsNotAStopCode(t *testing.T) {
	b, _, st := botFixture()

	b.HandleMessage(context.Background(), "user1", "142")
	_, ok, err := st.Get("user1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMyStopAndDelete(t *testing.T) {
	b, _, _ := botFixture()
	ctx := context.Background()

	reply := b.HandleMessage(ctx, "user1", "/duragim")
	assert.Contains(t, reply, "/durak")

	b.HandleMessage(ctx, "user1", "/durak 151434")
	reply = b.HandleMessage(ctx, "user1", "/duragim")
	assert.Contains(t, reply, "151434")

	reply = b.HandleMessage(ctx, "user1", "/sil")
	assert.Contains(t, reply, "silindi")

	reply = b.HandleMessage(ctx, "user1", "/duragim")
	assert.Contains(t, reply, "/durak")
}

func TestHelpAndUnknown(t *testing.T) {
	b, _, _ := botFixture()
	ctx := context.Background()

	for _, msg := range []string{"/start", "/yardim", "/help"} {
		assert.Contains(t, b.HandleMessage(ctx, "user1", msg), "/durak", msg)
	}

	assert.Contains(t, b.HandleMessage(ctx, "user1", "/bilinmeyen"), "/yardim")
	assert.Contains(t, b.HandleMessage(ctx, "user1", "merhaba"), "/yardim")
}

func TestUsersAreIndependent(t *testing.T) {
	b, resolver, _ := botFixture()
	ctx := context.Background()

	b.HandleMessage(ctx, "user1", "/durak 151434")
	b.HandleMessage(ctx, "user2", "/durak 111650")

	b.HandleMessage(ctx, "user1", "/otobusler")
	b.HandleMessage(ctx, "user2", "/otobusler")

	assert.Equal(t, []string{"151434", "111650"}, resolver.stops)
}
