package coverletter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/openai/openai-go/v3/option"
)

var testProfile = models.Profile{
	FullName: "Ada Lovelace",
	Email:    "ada@example.com",
	City:     "London",
	Country:  "UK",
	Profiles: []models.SocialProfile{{Network: "GitHub", Username: "ada", URL: "https://github.com/ada"}},
	Skills:   []models.Skill{{Name: "Languages", Keywords: []string{"Go", "SQL"}}},
}

func TestPrompt(t *testing.T) {
	prompt := Prompt("  Build services.  ", testProfile)
	for _, want := range []string{
		"returned in Markdown format",
		"Job Description:\n\nBuild services.\n",
		"Full Name: Ada Lovelace\n",
		"Profiles: GitHub (https://github.com/ada)\n",
		"Skills: Languages: Go, SQL\n",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("Prompt() missing %q in:\n%s", want, prompt)
		}
	}
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI(" ", ""); !errors.Is(err, ErrAPIKeyNotSet) {
		t.Fatalf("NewOpenAI() error = %v, want ErrAPIKeyNotSet", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel = body.Model
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Dear Hiring Manager,  "}}],
"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer server.Close()

	gen, err := NewOpenAI("test-key", "", option.WithBaseURL(server.URL+"/v1/"), option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	letter, err := gen.Generate(context.Background(), "Build services.", testProfile)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if letter != "Dear Hiring Manager," {
		t.Fatalf("letter = %q", letter)
	}
	if gotModel != DefaultModel {
		t.Fatalf("model = %q, want %q", gotModel, DefaultModel)
	}
}
