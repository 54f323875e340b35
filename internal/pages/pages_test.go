package pages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-pages/internal/wait"
)

// fakeSession is an in-memory Session: selectors map to visibility
// and text, interactions are recorded, and click hooks emulate the
// page's JS. Guarded by a mutex so tests can flip state from timers
// while a wait polls.
type fakeSession struct {
	mu sync.Mutex

	els   map[string]bool // selector -> visible; presence in the map = present in the DOM
	texts map[string][]string

	navs    []string
	fills   map[string]string
	clicks  []string
	selects map[string]string

	onClick  map[string]func()
	clickErr map[string]error
}

var _ Session = (*fakeSession)(nil)

func newFakeSession() *fakeSession {
	return &fakeSession{
		els:      map[string]bool{},
		texts:    map[string][]string{},
		fills:    map[string]string{},
		selects:  map[string]string{},
		onClick:  map[string]func(){},
		clickErr: map[string]error{},
	}
}

func (f *fakeSession) setVisible(selector string, visible bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.els[selector] = visible
}

func (f *fakeSession) remove(selector string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.els, selector)
}

func (f *fakeSession) setTexts(selector string, texts ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts[selector] = texts
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navs = append(f.navs, url)
	return nil
}

func (f *fakeSession) Fill(_ context.Context, selector, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fills[selector] = text
	return nil
}

func (f *fakeSession) Click(_ context.Context, selector string) error {
	f.mu.Lock()
	if err := f.clickErr[selector]; err != nil {
		f.mu.Unlock()
		return err
	}
	f.clicks = append(f.clicks, selector)
	hook := f.onClick[selector]
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeSession) SelectOption(_ context.Context, selector, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selects[selector] = value
	return nil
}

func (f *fakeSession) Visible(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.els[selector]
}

func (f *fakeSession) Present(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.els[selector]
	return ok
}

func (f *fakeSession) Text(selector string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts, ok := f.texts[selector]
	if !ok || len(texts) == 0 {
		return "", false
	}
	return texts[0], true
}

func (f *fakeSession) Texts(selector string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[selector]
}

func (f *fakeSession) clicked(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clicks {
		if c == selector {
			return true
		}
	}
	return false
}

func (f *fakeSession) lastClick() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.clicks) == 0 {
		return ""
	}
	return f.clicks[len(f.clicks)-1]
}

// shortWait keeps timeout paths fast in tests.
func shortWait() wait.Config {
	return wait.Config{Timeout: 60 * time.Millisecond, Interval: 5 * time.Millisecond}
}

func TestWaitForPage(t *testing.T) {
	session := newFakeSession()
	dash := NewDashboardPage(session, "http://lms.example")

	t.Run("returns once the page reports loaded", func(t *testing.T) {
		time.AfterFunc(20*time.Millisecond, func() {
			session.setVisible("section.my-courses", true)
		})

		err := WaitForPage(dash, wait.Config{Timeout: time.Second, Interval: 5 * time.Millisecond})
		assert.NoError(t, err)
	})

	t.Run("times out when the page never loads", func(t *testing.T) {
		session.remove("section.my-courses")

		err := WaitForPage(dash, shortWait())
		require.Error(t, err)
		assert.ErrorIs(t, err, wait.ErrTimeout)
		assert.Contains(t, err.Error(), dash.URL())
	})
}

func TestVisit(t *testing.T) {
	session := newFakeSession()
	session.setVisible("section.my-courses", true)
	dash := NewDashboardPage(session, "http://lms.example")

	err := Visit(context.Background(), session, dash)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://lms.example/dashboard"}, session.navs)
}
