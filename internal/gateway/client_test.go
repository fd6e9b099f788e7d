package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okozlov/quill/internal/gateway"
	"github.com/okozlov/quill/internal/kb"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func newServer(t *testing.T, handler func(w http.ResponseWriter, req capturedRequest, r *http.Request)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		handler(w, req, r)
	}))
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := newServer(t, func(w http.ResponseWriter, _ capturedRequest, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"tags": []kb.Tag{}}})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, func() string { return "tok-1" }, nil)
	if _, err := c.Tags(context.Background()); err != nil {
		t.Fatalf("expected query to succeed: %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestGraphQLErrorListIsFailure(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ capturedRequest, _ *http.Request) {
		// HTTP 200 with an error list must still fail.
		json.NewEncoder(w).Encode(map[string]any{
			"data":   map[string]any{"tags": nil},
			"errors": []map[string]any{{"message": "not authorized"}},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	_, err := c.Tags(context.Background())

	var gqlErr *gateway.GraphQLError
	if !errors.As(err, &gqlErr) {
		t.Fatalf("expected GraphQLError, got %v", err)
	}
	if gqlErr.Errors[0].Message != "not authorized" {
		t.Fatalf("expected server message, got %+v", gqlErr.Errors)
	}
}

func TestTransportFailureClass(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ capturedRequest, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	_, err := c.Tags(context.Background())

	var reqErr *gateway.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", reqErr.StatusCode)
	}
}

func TestQuestionsSendsTagFilterOnlyWhenSet(t *testing.T) {
	var gotVars map[string]any
	srv := newServer(t, func(w http.ResponseWriter, req capturedRequest, _ *http.Request) {
		gotVars = req.Variables
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"questions": []kb.Question{{ID: "q1", QuestionText: "What is TCP?"}}},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)

	if _, err := c.Questions(context.Background(), "c1", "networking"); err != nil {
		t.Fatalf("expected query to succeed: %v", err)
	}
	if gotVars["categoryId"] != "c1" || gotVars["tagFilter"] != "networking" {
		t.Fatalf("expected category and tag filter variables, got %v", gotVars)
	}

	if _, err := c.Questions(context.Background(), "c1", ""); err != nil {
		t.Fatalf("expected query to succeed: %v", err)
	}
	if _, ok := gotVars["tagFilter"]; ok {
		t.Fatalf("expected no tagFilter variable for empty filter, got %v", gotVars)
	}
}

func TestAnswerMayBeNull(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, _ capturedRequest, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"answer": nil},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	answer, err := c.Answer(context.Background(), "q1")
	if err != nil {
		t.Fatalf("expected fetch to succeed: %v", err)
	}
	if answer != nil {
		t.Fatalf("expected nil answer, got %+v", answer)
	}
}

func TestCreateQuestionCarriesType(t *testing.T) {
	var gotVars map[string]any
	srv := newServer(t, func(w http.ResponseWriter, req capturedRequest, _ *http.Request) {
		gotVars = req.Variables
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"createQuestion": map[string]any{
					"category": kb.Category{ID: "c1", Name: "Networking"},
					"question": kb.Question{ID: "Q99", QuestionText: "What is TCP?"},
					"answer":   kb.Answer{ID: "a99", AnswerText: ""},
				},
			},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	result, err := c.CreateQuestion(context.Background(), "What is TCP?", "c1", kb.QuestionWithTopic)
	if err != nil {
		t.Fatalf("expected mutation to succeed: %v", err)
	}

	if gotVars["questionType"] != string(kb.QuestionWithTopic) {
		t.Fatalf("expected question type variable, got %v", gotVars)
	}
	if result.Question == nil || result.Question.ID != "Q99" {
		t.Fatalf("expected created question Q99, got %+v", result)
	}
}

func TestUpdateQuestionTagsSendsCleanTags(t *testing.T) {
	var gotVars map[string]any
	srv := newServer(t, func(w http.ResponseWriter, req capturedRequest, _ *http.Request) {
		gotVars = req.Variables
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"updateQuestionTags": map[string]any{
					"question": kb.Question{ID: "q1", Tags: []kb.Tag{{ID: "t1", Name: "tcp"}}},
				},
			},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	result, err := c.UpdateQuestionTags(context.Background(), "q1", []kb.Tag{{ID: "t1", Name: "tcp"}})
	if err != nil {
		t.Fatalf("expected mutation to succeed: %v", err)
	}

	tags, ok := gotVars["tags"].([]any)
	if !ok || len(tags) != 1 {
		t.Fatalf("expected one tag variable, got %v", gotVars["tags"])
	}
	tag := tags[0].(map[string]any)
	if tag["id"] != "t1" || tag["name"] != "tcp" {
		t.Fatalf("expected clean id/name pair, got %v", tag)
	}
	if !result.Question.HasTag("t1") {
		t.Fatalf("expected echoed tags on question, got %+v", result.Question)
	}
}

func TestLoginReturnsSession(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, req capturedRequest, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"login": map[string]any{
					"user":  kb.User{ID: "u1", Email: "user@example.com", Name: "User"},
					"token": "tok-jwt",
				},
			},
		})
	})
	defer srv.Close()

	c := gateway.NewClient(srv.URL, nil, nil)
	session, err := c.Login(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("expected login to succeed: %v", err)
	}
	if session.Token != "tok-jwt" || session.User.ID != "u1" {
		t.Fatalf("unexpected session %+v", session)
	}
}
