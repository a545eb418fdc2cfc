package tracker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/use-agent/mindtrace/config"
	"github.com/use-agent/mindtrace/delivery"
	"github.com/use-agent/mindtrace/identity"
	"github.com/use-agent/mindtrace/models"
	"github.com/use-agent/mindtrace/pagesource"
	"github.com/use-agent/mindtrace/storage"
)

const quizURL = "https://www.16personalities.com/free-personality-test"

const quizFirstPageHTML = `<html><body>
<form data-quiz>
  <fieldset class="question" data-question="0">
    <div class="statement"><span class="header">You regularly make new friends.</span></div>
    <input type="radio" name="q0" value="3" aria-label="Agree">
    <input type="radio" name="q0" value="-3" aria-label="Disagree">
  </fieldset>
  <fieldset class="question" data-question="1">
    <div class="statement"><span class="header">You enjoy solitude.</span></div>
    <input type="radio" name="q1" value="2" aria-label="Agree">
  </fieldset>
</form>
</body></html>`

const quizAnsweredPageHTML = `<html><body>
<form data-quiz>
  <fieldset class="question" data-question="0">
    <div class="statement"><span class="header">You regularly make new friends.</span></div>
    <input type="radio" name="q0" value="3" aria-label="Agree" checked>
  </fieldset>
  <fieldset class="question" data-question="1">
    <div class="statement"><span class="header">You enjoy solitude.</span></div>
    <input type="radio" name="q1" value="2" aria-label="Agree">
  </fieldset>
</form>
</body></html>`

type collector struct {
	mu     sync.Mutex
	bodies [][]byte
	srv    *httptest.Server
}

// newCollector spins up an endpoint; if gate is non-nil every request blocks
// on it before being recorded and acknowledged.
func newCollector(t *testing.T, gate <-chan struct{}) *collector {
	t.Helper()
	c := &collector{}
	c.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gate != nil {
			<-gate
		}
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()
		w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(c.srv.Close)
	return c
}

func (c *collector) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.bodies...)
}

func (c *collector) types(t *testing.T) []string {
	t.Helper()
	var out []string
	for _, body := range c.received() {
		var env struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(body, &env))
		out = append(out, env.Type)
	}
	return out
}

func testTrackerCfg() config.TrackerConfig {
	return config.TrackerConfig{
		PollInterval:    5 * time.Millisecond,
		MaxPollAttempts: 60,
		Source:          "browser",
	}
}

func newQuizUnderTest(t *testing.T, endpoint string, pageHTML string) (*QuizPage, *identity.Manager) {
	t.Helper()
	ids := identity.NewManager(storage.NewMemory())
	client := delivery.New(config.EndpointConfig{URL: endpoint, Timeout: 2 * time.Second})
	t.Cleanup(client.Close)

	quiz, err := NewQuizPage(testTrackerCfg(), ids, client, pagesource.NewStatic(quizURL, pageHTML), "user-1")
	require.NoError(t, err)
	return quiz, ids
}

func TestNewQuizPage_PersistsFreshSession(t *testing.T) {
	col := newCollector(t, nil)
	quiz, ids := newQuizUnderTest(t, col.srv.URL, quizFirstPageHTML)

	stored, ok, err := ids.StoredSession()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, quiz.SessionID(), stored)
}

func TestQuizStart_FirstUnansweredSendsStartEvent(t *testing.T) {
	col := newCollector(t, nil)
	quiz, _ := newQuizUnderTest(t, col.srv.URL, quizFirstPageHTML)

	require.NoError(t, quiz.Start(context.Background()))

	bodies := col.received()
	require.Len(t, bodies, 1)

	var sent models.EventPayload
	require.NoError(t, json.Unmarshal(bodies[0], &sent))
	require.Equal(t, models.EventTestStarted, sent.EventName)
	require.Equal(t, quiz.SessionID(), sent.SessionID)
}

func TestQuizStart_MidQuizReloadStaysQuiet(t *testing.T) {
	col := newCollector(t, nil)
	quiz, _ := newQuizUnderTest(t, col.srv.URL, quizAnsweredPageHTML)

	require.NoError(t, quiz.Start(context.Background()))
	require.Empty(t, col.received())
}

func TestHandleClick_NextSendsAnswers(t *testing.T) {
	col := newCollector(t, nil)
	quiz, _ := newQuizUnderTest(t, col.srv.URL, quizAnsweredPageHTML)

	terminal, err := quiz.HandleClick(context.Background(), pagesource.Click{Text: "Next"})
	require.NoError(t, err)
	require.False(t, terminal)

	bodies := col.received()
	require.Len(t, bodies, 1)

	var sent models.AnswersPayload
	require.NoError(t, json.Unmarshal(bodies[0], &sent))
	require.Equal(t, models.TypeAnswers, sent.Type)
	require.Len(t, sent.Answers, 2)
	require.NotNil(t, sent.Answers[0].AnswerValue)
	require.Equal(t, "3", *sent.Answers[0].AnswerValue)
	require.Nil(t, sent.Answers[1].AnswerValue)
	require.Equal(t, models.NotAnswered, sent.Answers[1].AnswerLabel)
}

func TestHandleClick_SeeResultsUsesDurableChannelInOrder(t *testing.T) {
	gate := make(chan struct{})
	col := newCollector(t, gate)

	ids := identity.NewManager(storage.NewMemory())
	client := delivery.New(config.EndpointConfig{URL: col.srv.URL, Timeout: 5 * time.Second})

	quiz, err := NewQuizPage(testTrackerCfg(), ids, client, pagesource.NewStatic(quizURL, quizAnsweredPageHTML), "user-1")
	require.NoError(t, err)

	// The collector is gated shut, so HandleClick can only return promptly if
	// both sends were queued, not awaited.
	terminal, err := quiz.HandleClick(context.Background(), pagesource.Click{
		AriaLabel: "Submit the test and see results",
	})
	require.NoError(t, err)
	require.True(t, terminal)

	close(gate)
	client.Close()

	require.Equal(t, []string{models.TypeAnswers, models.TypeEvent}, col.types(t))

	var finish models.EventPayload
	bodies := col.received()
	require.NoError(t, json.Unmarshal(bodies[1], &finish))
	require.Equal(t, models.EventTestFinished, finish.EventName)
}

// liveStateSource reports answer state directly, the way a live browser
// session does; its serialized HTML deliberately disagrees, the way a DOM
// snapshot of a clicked-but-unsubmitted page would.
type liveStateSource struct {
	*pagesource.Static
	state []models.Answer
}

func (s *liveStateSource) Answers(context.Context) ([]models.Answer, error) {
	return s.state, nil
}

func TestHandleClick_ReadsLiveAnswerState(t *testing.T) {
	col := newCollector(t, nil)
	ids := identity.NewManager(storage.NewMemory())
	client := delivery.New(config.EndpointConfig{URL: col.srv.URL, Timeout: 2 * time.Second})
	t.Cleanup(client.Close)

	// The markup carries no checked attributes; only the live state knows the
	// user selected an option.
	value := "3"
	src := &liveStateSource{
		Static: pagesource.NewStatic(quizURL, quizFirstPageHTML),
		state: []models.Answer{
			{QuestionNumber: 0, QuestionText: "You regularly make new friends.", AnswerValue: &value, AnswerLabel: "Agree"},
			{QuestionNumber: 1, QuestionText: "You enjoy solitude.", AnswerLabel: models.NotAnswered},
		},
	}
	quiz, err := NewQuizPage(testTrackerCfg(), ids, client, src, "user-1")
	require.NoError(t, err)

	terminal, err := quiz.HandleClick(context.Background(), pagesource.Click{Text: "Next"})
	require.NoError(t, err)
	require.False(t, terminal)

	bodies := col.received()
	require.Len(t, bodies, 1)

	var sent models.AnswersPayload
	require.NoError(t, json.Unmarshal(bodies[0], &sent))
	require.Len(t, sent.Answers, 2)
	require.NotNil(t, sent.Answers[0].AnswerValue)
	require.Equal(t, "3", *sent.Answers[0].AnswerValue)
}

func TestQuizStart_LiveStateSuppressesReplayedStartEvent(t *testing.T) {
	col := newCollector(t, nil)
	ids := identity.NewManager(storage.NewMemory())
	client := delivery.New(config.EndpointConfig{URL: col.srv.URL, Timeout: 2 * time.Second})
	t.Cleanup(client.Close)

	// A mid-quiz reload: the serialized markup looks untouched, but the live
	// state carries an answer, so no start marker may go out.
	value := "2"
	src := &liveStateSource{
		Static: pagesource.NewStatic(quizURL, quizFirstPageHTML),
		state: []models.Answer{
			{QuestionNumber: 0, QuestionText: "You regularly make new friends.", AnswerValue: &value, AnswerLabel: "Agree"},
		},
	}
	quiz, err := NewQuizPage(testTrackerCfg(), ids, client, src, "user-1")
	require.NoError(t, err)

	require.NoError(t, quiz.Start(context.Background()))
	require.Empty(t, col.received())
}

func TestIsSeeResults(t *testing.T) {
	tests := []struct {
		name  string
		click pagesource.Click
		want  bool
	}{
		{"aria label", pagesource.Click{AriaLabel: "Submit the test and see results"}, true},
		{"button text", pagesource.Click{Text: "See results"}, true},
		{"next button", pagesource.Click{AriaLabel: "Go to the next set of questions", Text: "Next"}, false},
		{"empty", pagesource.Click{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isSeeResults(tt.click))
		})
	}
}
