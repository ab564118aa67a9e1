package alerthook_test

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/alerthook/alerthook"
	"github.com/alerthook/alerthook/keyvalue"
	"github.com/alerthook/alerthook/services/discord"
	"github.com/alerthook/alerthook/services/discord/discordtest"
)

// testDiagnostic records side-channel reports and signals them on a
// channel so tests can wait for asynchronous dispatch failures.
type testDiagnostic struct {
	mu   sync.Mutex
	errs []error
	ch   chan error
}

func newTestDiagnostic() *testDiagnostic {
	return &testDiagnostic{ch: make(chan error, 64)}
}

func (d *testDiagnostic) WithContext(ctx ...keyvalue.T) alerthook.Diagnostic { return d }
func (d *testDiagnostic) InsecureSkipVerify()                                {}
func (d *testDiagnostic) Error(msg string, err error) {
	d.mu.Lock()
	d.errs = append(d.errs, err)
	d.mu.Unlock()
	select {
	case d.ch <- err:
	default:
	}
}

func (d *testDiagnostic) waitError(t *testing.T) error {
	t.Helper()
	select {
	case err := <-d.ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a diagnostic report")
		return nil
	}
}

func newTestSender(t *testing.T, endpoint string, d alerthook.Diagnostic) *alerthook.Sender {
	t.Helper()
	sender, err := alerthook.NewBuilder().
		Platform("discord").
		Endpoint(endpoint).
		Diagnostic(d).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return sender
}

func waitRequest(t *testing.T, ts *discordtest.Server) discordtest.Request {
	t.Helper()
	select {
	case req := <-ts.Received():
		return req
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a webhook request")
		return discordtest.Request{}
	}
}

func TestSend_InvalidArguments(t *testing.T) {
	cases := []struct {
		name    string
		title   string
		message string
		want    string
	}{
		{name: "empty title", title: "", message: "msg", want: "title must be a non-empty string"},
		{name: "empty message", title: "title", message: "", want: "message must be a non-empty string"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := discordtest.NewServer()
			defer ts.Close()
			d := newTestDiagnostic()
			sender := newTestSender(t, ts.URL, d)

			sender.Send(tc.title, tc.message, nil)

			err := d.waitError(t)
			var de *alerthook.DispatchError
			if !errors.As(err, &de) {
				t.Errorf("expected a *DispatchError, got %T", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("unexpected report: got %q want substring %q", err.Error(), tc.want)
			}
			// Validation happens before dispatch starts, so no
			// request can ever reach the webhook.
			if got := len(ts.Requests()); got != 0 {
				t.Errorf("expected no webhook requests, got %d", got)
			}
		})
	}
}

func TestSend_PostsRenderedContent(t *testing.T) {
	ts := discordtest.NewServer()
	defer ts.Close()
	d := newTestDiagnostic()
	sender := newTestSender(t, ts.URL, d)

	sender.Send("Title", "Body", nil)

	got := waitRequest(t, ts)
	want := discordtest.Request{
		URL:         "/",
		ContentType: "application/json",
		PostData: discordtest.PostData{
			Content: "**Title**\n\nmessage:```\n\nBody```\n",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected webhook request -want/+got:\n%s", diff)
	}
	if got := len(ts.Requests()); got != 1 {
		t.Errorf("expected exactly one webhook request, got %d", got)
	}
}

func TestSend_DataBlock(t *testing.T) {
	ts := discordtest.NewServer()
	defer ts.Close()
	d := newTestDiagnostic()
	sender := newTestSender(t, ts.URL, d)

	sender.Send("Title", "Body", map[string]interface{}{"k": "v"})

	got := waitRequest(t, ts)
	want := "**Title**\n\nmessage:```\n\nBody```\ndata:```\n\n{\"k\":\"v\"}```"
	if got.PostData.Content != want {
		t.Errorf("unexpected content:\ngot  %q\nwant %q", got.PostData.Content, want)
	}
}

func TestSend_Options(t *testing.T) {
	ts := discordtest.NewServer()
	defer ts.Close()
	d := newTestDiagnostic()
	sender, err := alerthook.NewBuilder().
		Platform("discord").
		Endpoint(ts.URL).
		Options(map[string]interface{}{"username": "oncall-bot"}).
		Diagnostic(d).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	sender.Send("Title", "Body", nil)

	got := waitRequest(t, ts)
	if got.PostData.Username != "oncall-bot" {
		t.Errorf("unexpected username: got %q want %q", got.PostData.Username, "oncall-bot")
	}
}

func TestSend_ServerErrorGoesToSideChannel(t *testing.T) {
	ts := discordtest.NewServer()
	defer ts.Close()
	ts.SetResponse(500, "the bot is on fire")
	d := newTestDiagnostic()
	sender := newTestSender(t, ts.URL, d)

	// Send returns immediately; the failure surfaces asynchronously.
	sender.Send("Title", "Body", nil)

	err := d.waitError(t)
	var se *discord.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected a *discord.StatusError, got %T: %v", err, err)
	}
	if se.Code != 500 {
		t.Errorf("unexpected status code: got %d want 500", se.Code)
	}
	if !strings.Contains(err.Error(), "the bot is on fire") {
		t.Errorf("expected report to carry the response text, got %q", err.Error())
	}
}

func TestSend_ConcurrentSendsAreIndependent(t *testing.T) {
	ts := discordtest.NewServer()
	defer ts.Close()
	d := newTestDiagnostic()
	sender := newTestSender(t, ts.URL, d)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sender.Send("Title", "Body", nil)
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		waitRequest(t, ts)
	}
	if got := len(ts.Requests()); got != n {
		t.Errorf("expected %d webhook requests, got %d", n, got)
	}
}
