package resume

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jimezsa/jobber/internal/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidImage = errors.New("image must be a .png, .jpg or .jpeg file")
)

var imageExtensions = []string{".png", ".jpg", ".jpeg"}

// LoadProfile reads and validates the applicant profile at path.
func LoadProfile(path string) (models.Profile, error) {
	var profile models.Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := Validate(&profile); err != nil {
		return profile, fmt.Errorf("profile %s: %w", path, err)
	}
	return profile, nil
}

// Validate checks the profile and fills derived fields such as social
// usernames.
func Validate(profile *models.Profile) error {
	profile.Email = strings.TrimSpace(profile.Email)
	if !strings.Contains(profile.Email, "@") || !strings.Contains(profile.Email, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, profile.Email)
	}
	if profile.Image != "" && !hasImageExtension(profile.Image) {
		return fmt.Errorf("%w: %q", ErrInvalidImage, profile.Image)
	}

	var profiles []models.SocialProfile
	for _, p := range profile.Profiles {
		p.URL = strings.TrimSpace(p.URL)
		if p.URL == "" {
			continue
		}
		if p.Username == "" {
			p.Username = Username(p.URL)
		}
		profiles = append(profiles, p)
	}
	profile.Profiles = profiles
	return nil
}

// Username is the last path segment of a profile URL.
func Username(profileURL string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(profileURL), "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func hasImageExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Template is a starter profile written by `config init`.
const Template = `full_name: ""
email: ""
city: ""
country: ""
phone_number: ""
website: ""
image: ""
profiles:
  - network: GitHub
    url: ""
skills:
  - name: Languages
    keywords: [Go]
educations: []
projects: []
work_experience: []
`
