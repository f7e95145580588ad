package tui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/exp/teatest/v2"
)

func newTeatestModel(t *testing.T, svc *fakeService) *teatest.TestModel {
	t.Helper()
	tm := teatest.NewTestModel(t, NewModel(svc, WithGrids(testSpecs(t))), teatest.WithInitialTermSize(120, 40))
	t.Cleanup(func() {
		_ = tm.Quit()
	})
	return tm
}

func waitForOutput(t *testing.T, tm *teatest.TestModel, want string) {
	t.Helper()
	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), want)
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))
}

func TestModelWithTeatest(t *testing.T) {
	tm := newTeatestModel(t, newFakeService(testCards()...))
	waitForOutput(t, tm, "alpha")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestModelWithTeatestDragPersists(t *testing.T) {
	svc := newFakeService(testCards()...)
	tm := newTeatestModel(t, svc)
	waitForOutput(t, tm, "gamma")

	tm.Send(click(3, 4))
	tm.Send(move(4, 4))
	tm.Send(move(20, 4))
	tm.Send(release(20, 4))
	waitForOutput(t, tm, "saved")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t, teatest.WithFinalTimeout(2*time.Second)).(Model)
	if !ok {
		t.Fatal("expected final Model")
	}
	if got := gridLabels(final, 1); !slices.Equal(got, []string{"alpha", "gamma"}) {
		t.Fatalf("done labels = %v", got)
	}
	if got := svc.saved["done"]; !slices.Equal(got, []string{"a1", "d1"}) {
		t.Fatalf("saved done = %v", got)
	}
}

func TestModelWithTeatestHelpToggle(t *testing.T) {
	tm := newTeatestModel(t, newFakeService(testCards()...))
	waitForOutput(t, tm, "alpha")

	tm.Send(tea.KeyPressMsg{Code: '?', Text: "?"})
	waitForOutput(t, tm, "lock select")

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}
