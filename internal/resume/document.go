package resume

import "github.com/jimezsa/jobber/internal/models"

// Config is the document the resumy builder reads.
type Config struct {
	Basics    Basics         `yaml:"basics"`
	Education []Education    `yaml:"education"`
	Projects  []Project      `yaml:"projects"`
	Skills    []models.Skill `yaml:"skills"`
	Work      []Work         `yaml:"work"`
}

type Basics struct {
	Name     string                 `yaml:"name"`
	Email    string                 `yaml:"email"`
	Phone    string                 `yaml:"phone"`
	URL      string                 `yaml:"url,omitempty"`
	Image    string                 `yaml:"image,omitempty"`
	Location Location               `yaml:"location"`
	Profiles []models.SocialProfile `yaml:"profiles"`
}

type Location struct {
	City        string `yaml:"city"`
	CountryCode string `yaml:"countryCode"`
}

type Education struct {
	Area        string `yaml:"area"`
	Institution string `yaml:"institution"`
	StartDate   string `yaml:"startDate"`
}

type Project struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords"`
	URL         string   `yaml:"url,omitempty"`
}

type Work struct {
	Name       string   `yaml:"name"`
	Position   string   `yaml:"position"`
	StartDate  string   `yaml:"startDate"`
	EndDate    string   `yaml:"endDate,omitempty"`
	Highlights []string `yaml:"highlights"`
}

func Document(profile models.Profile) Config {
	doc := Config{
		Basics: Basics{
			Name:     profile.FullName,
			Email:    profile.Email,
			Phone:    profile.PhoneNumber,
			URL:      profile.Website,
			Image:    profile.Image,
			Location: Location{City: profile.City, CountryCode: profile.Country},
			Profiles: profile.Profiles,
		},
		Skills: profile.Skills,
	}
	for _, e := range profile.Educations {
		doc.Education = append(doc.Education, Education(e))
	}
	for _, p := range profile.Projects {
		doc.Projects = append(doc.Projects, Project(p))
	}
	for _, w := range profile.WorkExperience {
		work := Work{Name: w.Company, Position: w.Area, StartDate: w.StartDate, EndDate: w.EndDate}
		if w.Description != "" {
			work.Highlights = []string{w.Description}
		}
		doc.Work = append(doc.Work, work)
	}
	return doc
}
