package bot

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/museumguide/core/logger"
	"github.com/m3rciful/museumguide/core/metrics"
	"github.com/m3rciful/museumguide/core/telegram/state"
	"github.com/m3rciful/museumguide/guide/content"
	"github.com/m3rciful/museumguide/guide/conversation"
)

func TestMain(m *testing.M) {
	logger.UseDiscard()
	os.Exit(m.Run())
}

type sent struct {
	voice   bool
	body    string
	buttons []string
}

type fakeOutbox struct {
	mu      sync.Mutex
	msgs    []sent
	failOn  int
	sendErr error
}

func (f *fakeOutbox) record(s sent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil && len(f.msgs)+1 >= f.failOn {
		return f.sendErr
	}
	f.msgs = append(f.msgs, s)
	return nil
}

func (f *fakeOutbox) SendHTML(text string, buttons []string) error {
	return f.record(sent{body: text, buttons: buttons})
}

func (f *fakeOutbox) SendVoice(path string, buttons []string) error {
	return f.record(sent{voice: true, body: path, buttons: buttons})
}

func (f *fakeOutbox) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeOutbox) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgs[len(f.msgs)-1]
}

func testCatalog(t *testing.T) *content.Catalog {
	t.Helper()
	cat, err := content.NewCatalog([]content.Exhibit{
		{Name: "Вступление", Kind: content.KindIntro, AudioGuide: "intro.ogg", TextGuide: "Привет.", VideoGuide: "none"},
		{Name: "Galaga", Kind: content.KindArcade, AudioGuide: "galaga.ogg", TextGuide: "Космос.", VideoGuide: "https://youtu.be/galaga"},
		{Name: "Addams Family", Kind: content.KindPinball, AudioGuide: "addams.ogg", TextGuide: "Bally.", VideoGuide: "none"},
	})
	require.NoError(t, err)
	return cat
}

func newTestBot(t *testing.T, sessions state.Manager[conversation.Session]) (*Bot, *metrics.Collectors) {
	t.Helper()
	if sessions == nil {
		sessions = state.NewMemoryManager[conversation.Session]()
	}
	m := metrics.New(nil)
	b, err := New(Options{Catalog: testCatalog(t), Sessions: sessions, Metrics: m})
	require.NoError(t, err)
	return b, m
}

func TestNewRequiresCatalogAndSessions(t *testing.T) {
	_, err := New(Options{Sessions: state.NewMemoryManager[conversation.Session]()})
	assert.Error(t, err)
	_, err = New(Options{Catalog: testCatalog(t)})
	assert.Error(t, err)
}

func TestHandleWalksAndPersistsSession(t *testing.T) {
	sessions := state.NewMemoryManager[conversation.Session]()
	b, m := newTestBot(t, sessions)
	ctx := context.Background()
	out := &fakeOutbox{}

	for _, text := range []string{conversation.CommandStart, conversation.LabelText, conversation.LabelArcades, "Galaga"} {
		require.NoError(t, b.Handle(ctx, 1, text, out))
	}

	assert.Equal(t, "<b>Galaga</b>\n\n\nКосмос.", out.last().body)
	assert.Equal(t, []string{conversation.LabelBackToList}, out.last().buttons)

	s, err := sessions.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateAwaitBack, s.State)
	assert.Equal(t, conversation.GuideText, s.Guide)
	assert.Equal(t, conversation.SectionArcade, s.Section)
	assert.Equal(t, "Galaga", s.LastText)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Transitions.WithLabelValues("idle", "await_guide")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Transitions.WithLabelValues("await_exhibit", "await_back")))
}

func TestHandleSuppressesDuplicates(t *testing.T) {
	b, m := newTestBot(t, nil)
	ctx := context.Background()
	out := &fakeOutbox{}

	require.NoError(t, b.Handle(ctx, 1, conversation.CommandStart, out))
	require.NoError(t, b.Handle(ctx, 1, conversation.LabelAudio, out))
	require.NoError(t, b.Handle(ctx, 1, conversation.LabelAudio, out))

	assert.Equal(t, 2, out.count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Duplicates))
}

func TestHandleKeepsUsersIndependent(t *testing.T) {
	sessions := state.NewMemoryManager[conversation.Session]()
	b, _ := newTestBot(t, sessions)
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, 1, conversation.CommandStart, &fakeOutbox{}))
	require.NoError(t, b.Handle(ctx, 1, conversation.LabelVideo, &fakeOutbox{}))
	require.NoError(t, b.Handle(ctx, 2, conversation.CommandStart, &fakeOutbox{}))

	s1, err := sessions.Get(ctx, 1)
	require.NoError(t, err)
	s2, err := sessions.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateAwaitExhibit, s1.State)
	assert.Equal(t, conversation.StateAwaitGuide, s2.State)
}

func TestHandleDeliveryFailureClearsSession(t *testing.T) {
	sessions := state.NewMemoryManager[conversation.Session]()
	b, m := newTestBot(t, sessions)
	ctx := context.Background()

	require.NoError(t, b.Handle(ctx, 7, conversation.CommandStart, &fakeOutbox{}))
	require.NoError(t, b.Handle(ctx, 7, conversation.LabelAudio, &fakeOutbox{}))
	require.NoError(t, b.Handle(ctx, 7, conversation.LabelArcades, &fakeOutbox{}))

	boom := errors.New("file missing")
	err := b.Handle(ctx, 7, "Galaga", &fakeOutbox{sendErr: boom, failOn: 1})
	require.ErrorIs(t, err, boom)

	_, err = sessions.Get(ctx, 7)
	assert.ErrorIs(t, err, state.ErrNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("deliver")))

	// A lost session resynchronises through the unrecognized path.
	out := &fakeOutbox{}
	require.NoError(t, b.Handle(ctx, 7, "Galaga", out))
	assert.Equal(t, []string{conversation.LabelAudio, conversation.LabelText, conversation.LabelVideo}, out.last().buttons)
}

type panickingOutbox struct{}

func (panickingOutbox) SendHTML(string, []string) error  { panic("boom") }
func (panickingOutbox) SendVoice(string, []string) error { panic("boom") }

func TestHandleRecoversPanics(t *testing.T) {
	sessions := state.NewMemoryManager[conversation.Session]()
	b, m := newTestBot(t, sessions)
	ctx := context.Background()

	err := b.Handle(ctx, 3, conversation.CommandStart, panickingOutbox{})
	require.Error(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Failures.WithLabelValues("panic")))

	n, err := sessions.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, b.locks.size())
}

func TestHandleSerialisesOneUser(t *testing.T) {
	b, _ := newTestBot(t, nil)
	ctx := context.Background()
	out := &fakeOutbox{}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Handle(ctx, 5, conversation.CommandStart, out))
		}()
	}
	wg.Wait()

	// Serialised handling lets the guard see every prior press.
	assert.Equal(t, 1, out.count())
	assert.Zero(t, b.locks.size())
}

func TestHandleWithRedisSessions(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessions := state.NewRedisManager[conversation.Session](client)
	t.Cleanup(func() { _ = sessions.Close() })

	b, _ := newTestBot(t, sessions)
	ctx := context.Background()
	out := &fakeOutbox{}

	require.NoError(t, b.Handle(ctx, 11, conversation.CommandStart, out))
	require.NoError(t, b.Handle(ctx, 11, conversation.LabelVideo, out))
	require.NoError(t, b.Handle(ctx, 11, "Galaga", out))

	assert.Equal(t, "<b>Galaga</b>\n\nhttps://youtu.be/galaga", out.last().body)
	s, err := sessions.Get(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, conversation.GuideVideo, s.Guide)
	assert.Equal(t, conversation.StateAwaitBack, s.State)
}

func TestStatsText(t *testing.T) {
	b, _ := newTestBot(t, nil)
	ctx := context.Background()
	require.NoError(t, b.Handle(ctx, 1, conversation.CommandStart, &fakeOutbox{}))

	text, err := b.stats(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "Аркады: 1")
	assert.Contains(t, text, "Неигровые экспонаты: 0")
	assert.Contains(t, text, "С видео: 1")
	assert.Contains(t, text, "<b>Сессии</b>: 1")
}

func TestUserLocksReleaseEntries(t *testing.T) {
	l := newUserLocks()
	unlock := l.Lock(1)
	assert.Equal(t, 1, l.size())
	unlock()
	assert.Zero(t, l.size())
}

func TestHandleUnknownAnswersUnrecognized(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.UseWriter(buf)
	t.Cleanup(logger.UseDiscard)

	sessions := state.NewMemoryManager[conversation.Session]()
	b, m := newTestBot(t, sessions)
	ctx := context.Background()
	out := &fakeOutbox{}

	for _, text := range []string{conversation.CommandStart, conversation.LabelText, conversation.LabelArcades} {
		require.NoError(t, b.Handle(ctx, 1, text, out))
	}
	before := out.count()

	require.NoError(t, b.HandleUnknown(ctx, 1, "/help", out))
	assert.Equal(t, before+2, out.count())
	assert.Equal(t, []string{conversation.LabelAudio, conversation.LabelText, conversation.LabelVideo}, out.last().buttons)

	s, err := sessions.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, conversation.StateAwaitGuide, s.State)
	assert.Equal(t, "/help", s.LastText)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Transitions.WithLabelValues("await_exhibit", "await_guide")))
	assert.Contains(t, buf.String(), `"state":"await_exhibit"`)

	require.NoError(t, b.HandleUnknown(ctx, 1, " /help ", out))
	assert.Equal(t, before+2, out.count())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Duplicates))
}
