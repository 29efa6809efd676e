package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/openai/openai-go"

	"github.com/mindloom/theraflow/internal/models"
	"github.com/mindloom/theraflow/internal/store"
)

// mockGenerator satisfies genai.ClientInterface for handler tests.
type mockGenerator struct {
	reply string
	err   error
	calls int
}

func (m *mockGenerator) GenerateWithMessages(_ context.Context, _ []openai.ChatCompletionMessageParamUnion) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func newTestServer(t *testing.T, gen *mockGenerator) (*httptest.Server, store.Store) {
	t.Helper()
	st := store.NewInMemoryStore()
	var srv *Server
	if gen != nil {
		srv = NewServer(st, gen)
	} else {
		srv = NewServer(st, nil)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, st
}

func decodeResponse(t *testing.T, resp *http.Response) models.APIResponse {
	t.Helper()
	defer resp.Body.Close()
	var out models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

func createSession(t *testing.T, ts *httptest.Server, body string) string {
	t.Helper()
	resp, err := http.Post(ts.URL+"/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /sessions: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /sessions status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	out := decodeResponse(t, resp)
	session, ok := out.Result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result shape: %#v", out.Result)
	}
	id, _ := session["id"].(string)
	if id == "" {
		t.Fatal("created session has no id")
	}
	return id
}

func postTurn(t *testing.T, ts *httptest.Server, id, utterance string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"utterance": utterance})
	resp, err := http.Post(ts.URL+"/sessions/"+id+"/turns", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST turn: %v", err)
	}
	return resp
}

func TestCreateAndGetSession(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	id := createSession(t, ts, "")

	resp, err := http.Get(ts.URL + "/sessions/" + id)
	if err != nil {
		t.Fatalf("GET /sessions/{id}: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	out := decodeResponse(t, resp)
	if out.Status != "ok" {
		t.Errorf("status field = %q", out.Status)
	}
	session := out.Result.(map[string]interface{})
	if session["stage"] != string(models.StageStartSession) {
		t.Errorf("new session stage = %v, want %s", session["stage"], models.StageStartSession)
	}
}

func TestCreateSessionWithScenario(t *testing.T) {
	ts, st := newTestServer(t, nil)

	id := createSession(t, ts, `{"scenario_id":"inner_child"}`)
	stored, err := st.GetSession(id)
	if err != nil || stored == nil {
		t.Fatalf("stored session = %v, %v", stored, err)
	}
	if stored.ScriptID != "inner_child" {
		t.Errorf("ScriptID = %q, want inner_child", stored.ScriptID)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/sessions/missing-id")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	out := decodeResponse(t, resp)
	if out.Status != "error" || out.Message == "" {
		t.Errorf("error payload = %+v", out)
	}
}

func TestTurnWithGenerator(t *testing.T) {
	gen := &mockGenerator{reply: "Hello, what brings you here today?"}
	ts, st := newTestServer(t, gen)
	id := createSession(t, ts, "")

	resp := postTurn(t, ts, id, "I keep putting off writing my thesis")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	out := decodeResponse(t, resp)
	result := out.Result.(map[string]interface{})
	if result["reply"] != gen.reply {
		t.Errorf("reply = %v, want %q", result["reply"], gen.reply)
	}
	directive := result["directive"].(map[string]interface{})
	if directive["stage"] != string(models.StageStartSession) {
		t.Errorf("directive stage = %v", directive["stage"])
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}

	stored, _ := st.GetSession(id)
	if stored.StageResponses != 1 {
		t.Errorf("stored response count = %d, want 1", stored.StageResponses)
	}
	if stored.Category != models.CategoryProcrastination {
		t.Errorf("stored category = %s, want %s", stored.Category, models.CategoryProcrastination)
	}
	// Both the utterance and the generated reply are in the history.
	if n := len(stored.History); n != 2 {
		t.Fatalf("history length = %d, want 2", n)
	}
	if stored.History[1].Role != "assistant" || stored.History[1].Content != gen.reply {
		t.Errorf("assistant history entry = %+v", stored.History[1])
	}
}

func TestTurnWithoutGenerator(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	id := createSession(t, ts, "")

	resp := postTurn(t, ts, id, "something has been weighing on me")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	out := decodeResponse(t, resp)
	result := out.Result.(map[string]interface{})
	if _, hasReply := result["reply"]; hasReply {
		t.Error("no reply expected without a generator")
	}
	if result["directive"] == nil {
		t.Error("directive must still be returned")
	}
}

func TestTurnRejectsEmptyUtterance(t *testing.T) {
	ts, st := newTestServer(t, nil)
	id := createSession(t, ts, "")

	resp := postTurn(t, ts, id, "   ")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	resp.Body.Close()

	stored, _ := st.GetSession(id)
	if stored.StageResponses != 0 || len(stored.History) != 0 {
		t.Errorf("rejected turn mutated state: responses=%d history=%d", stored.StageResponses, len(stored.History))
	}
}

func TestTurnRejectsOversizedUtterance(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	id := createSession(t, ts, "")

	resp := postTurn(t, ts, id, strings.Repeat("a", models.MaxUtteranceLength+1))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
	resp.Body.Close()
}

func TestTurnSessionNotFound(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp := postTurn(t, ts, "missing-id", "hello there")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()
}

func TestTurnGenerationFailureKeepsState(t *testing.T) {
	gen := &mockGenerator{err: errors.New("upstream timeout")}
	ts, st := newTestServer(t, gen)
	id := createSession(t, ts, "")

	resp := postTurn(t, ts, id, "I keep putting off writing my thesis")
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}
	out := decodeResponse(t, resp)
	if out.Status != "error" {
		t.Errorf("status field = %q", out.Status)
	}

	// The turn itself was committed before generation ran.
	stored, _ := st.GetSession(id)
	if stored.StageResponses != 1 {
		t.Errorf("stored response count = %d, want 1", stored.StageResponses)
	}
	if len(stored.History) != 1 || stored.History[0].Role != "user" {
		t.Errorf("stored history = %+v", stored.History)
	}
}

func TestStagesCatalog(t *testing.T) {
	ts, _ := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/stages")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	out := decodeResponse(t, resp)
	stages, ok := out.Result.([]interface{})
	if !ok {
		t.Fatalf("unexpected result shape: %#v", out.Result)
	}
	if len(stages) != len(models.StageOrder) {
		t.Fatalf("catalog length = %d, want %d", len(stages), len(models.StageOrder))
	}
	for i, raw := range stages {
		def := raw.(map[string]interface{})
		if def["stage"] != string(models.StageOrder[i]) {
			t.Errorf("catalog[%d] = %v, want %s", i, def["stage"], models.StageOrder[i])
		}
	}
}

func TestConcurrentTurnsSerialize(t *testing.T) {
	gen := &mockGenerator{reply: "noted"}
	ts, st := newTestServer(t, gen)
	id := createSession(t, ts, "")

	const turns = 8
	done := make(chan struct{}, turns)
	for i := 0; i < turns; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			resp := postTurn(t, ts, id, fmt.Sprintf("turn number %d, still thinking about it", i))
			resp.Body.Close()
		}(i)
	}
	for i := 0; i < turns; i++ {
		<-done
	}

	// Per-session locking must serialize the turns: none may be lost.
	stored, _ := st.GetSession(id)
	userMsgs := 0
	for _, m := range stored.History {
		if m.Role == "user" {
			userMsgs++
		}
	}
	if userMsgs != turns {
		t.Errorf("user messages recorded = %d, want %d", userMsgs, turns)
	}
}
