package coverletter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

const DefaultModel = "gpt-4o-mini"

var ErrAPIKeyNotSet = errors.New("openai api key not set")

// Generator writes a Markdown cover letter for a job description.
type Generator interface {
	Generate(ctx context.Context, description string, profile models.Profile) (string, error)
}

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey string, model string, opts ...option.RequestOption) (*OpenAI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrAPIKeyNotSet
	}
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

func (o *OpenAI) Generate(ctx context.Context, description string, profile models.Profile) (string, error) {
	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(description, profile)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	letter := strings.TrimSpace(completion.Choices[0].Message.Content)
	if letter == "" {
		return "", errors.New("openai returned an empty cover letter")
	}
	return letter, nil
}

// Prompt asks for a Markdown cover letter written from profile for the
// given job description.
func Prompt(description string, profile models.Profile) string {
	var b strings.Builder
	b.WriteString("Please generate a cover letter for a job application. The cover letter should be\n")
	b.WriteString("returned in Markdown format. Only return the cover letter text, no need for the\n")
	b.WriteString("front matter. DO NOT reference this prompt or explain what you are doing.\n\n")
	b.WriteString("---\n\nJob Description:\n\n")
	b.WriteString(strings.TrimSpace(description))
	b.WriteString("\n\n---\n\nUser Information:\n\n")
	fmt.Fprintf(&b, "Full Name: %s\n", profile.FullName)
	fmt.Fprintf(&b, "Email: %s\n", profile.Email)
	fmt.Fprintf(&b, "City: %s\n", profile.City)
	fmt.Fprintf(&b, "Country: %s\n", profile.Country)
	fmt.Fprintf(&b, "Phone Number: %s\n", profile.PhoneNumber)

	var profiles []string
	for _, p := range profile.Profiles {
		profiles = append(profiles, fmt.Sprintf("%s (%s)", p.Network, p.URL))
	}
	fmt.Fprintf(&b, "Profiles: %s\n", strings.Join(profiles, ", "))

	var skills []string
	for _, s := range profile.Skills {
		skills = append(skills, fmt.Sprintf("%s: %s", s.Name, strings.Join(s.Keywords, ", ")))
	}
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(skills, "; "))

	var educations []string
	for _, e := range profile.Educations {
		educations = append(educations, fmt.Sprintf("%s at %s since %s", e.Area, e.Institution, e.StartDate))
	}
	fmt.Fprintf(&b, "Educations: %s\n", strings.Join(educations, "; "))

	var projects []string
	for _, p := range profile.Projects {
		projects = append(projects, fmt.Sprintf("%s: %s", p.Name, p.Description))
	}
	fmt.Fprintf(&b, "Projects: %s\n", strings.Join(projects, "; "))

	b.WriteString("\n---\n\nThank you!\n")
	return b.String()
}
