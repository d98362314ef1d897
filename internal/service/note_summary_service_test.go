package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbruno/notekeep-website/internal/domain"
	"github.com/mbruno/notekeep-website/internal/llm"
	"github.com/mbruno/notekeep-website/internal/repository/postgres"
	"github.com/mbruno/notekeep-website/internal/service"
	"github.com/mbruno/notekeep-website/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatServer stands in for the Ollama chat endpoint and records the
// last prompt pair it was asked to complete.
func fakeChatServer(t *testing.T, reply string) (*httptest.Server, *[]map[string]string) {
	t.Helper()

	var messages []map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
			Stream   bool                `json:"stream"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.False(t, req.Stream)
		messages = req.Messages

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": reply},
		})
	}))
	t.Cleanup(server.Close)
	return server, &messages
}

func TestNoteSummaryService_Summarize(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("no notes is not found", func(t *testing.T) {
		server, _ := fakeChatServer(t, "unused")
		svc := service.NewNoteSummaryService(repos.Note, llm.NewClient(llm.Config{BaseURL: server.URL, Model: "llama3"}))

		_, err := svc.Summarize(ctx, user.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("only empty content is not found", func(t *testing.T) {
		blank, _ := testutil.NewUserBuilder().WithEmail("blank@example.com").Build(t, testDB.DB)
		testutil.NewNoteBuilder().WithTitle("untitled").WithContent("").WithOwner(blank.ID).Build(t, testDB.DB)

		server, _ := fakeChatServer(t, "unused")
		svc := service.NewNoteSummaryService(repos.Note, llm.NewClient(llm.Config{BaseURL: server.URL, Model: "llama3"}))

		_, err := svc.Summarize(ctx, blank.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("joins the note contents into one prompt", func(t *testing.T) {
		testutil.NewNoteBuilder().WithTitle("first").WithContent("buy milk").WithOwner(user.ID).Build(t, testDB.DB)
		testutil.NewNoteBuilder().WithTitle("second").WithContent("call the bank").WithOwner(user.ID).Build(t, testDB.DB)
		testutil.NewNoteBuilder().WithTitle("empty").WithContent("").WithOwner(user.ID).Build(t, testDB.DB)

		server, messages := fakeChatServer(t, "## Summary\n- milk\n- bank")
		svc := service.NewNoteSummaryService(repos.Note, llm.NewClient(llm.Config{BaseURL: server.URL, Model: "llama3"}))

		summary, err := svc.Summarize(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "## Summary\n- milk\n- bank", summary)

		require.Len(t, *messages, 2)
		assert.Equal(t, "system", (*messages)[0]["role"])
		assert.Contains(t, (*messages)[0]["content"], "summarizes notes")
		assert.Equal(t, "user", (*messages)[1]["role"])
		assert.Contains(t, (*messages)[1]["content"], "buy milk")
		assert.Contains(t, (*messages)[1]["content"], "call the bank")
	})

	t.Run("model failure surfaces as an internal error", func(t *testing.T) {
		broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		t.Cleanup(broken.Close)
		svc := service.NewNoteSummaryService(repos.Note, llm.NewClient(llm.Config{BaseURL: broken.URL, Model: "llama3"}))

		_, err := svc.Summarize(ctx, user.ID)
		assert.ErrorIs(t, err, domain.ErrInternal)
	})
}
