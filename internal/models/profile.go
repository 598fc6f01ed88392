package models

// Profile is the applicant data used for resumes and cover letters.
type Profile struct {
	FullName       string           `yaml:"full_name" json:"full_name"`
	Email          string           `yaml:"email" json:"email"`
	City           string           `yaml:"city" json:"city"`
	Country        string           `yaml:"country" json:"country"`
	PhoneNumber    string           `yaml:"phone_number" json:"phone_number"`
	Website        string           `yaml:"website,omitempty" json:"website,omitempty"`
	Image          string           `yaml:"image,omitempty" json:"image,omitempty"`
	Profiles       []SocialProfile  `yaml:"profiles" json:"profiles"`
	Skills         []Skill          `yaml:"skills" json:"skills"`
	Educations     []Education      `yaml:"educations" json:"educations"`
	Projects       []Project        `yaml:"projects" json:"projects"`
	WorkExperience []WorkExperience `yaml:"work_experience" json:"work_experience"`
}

type SocialProfile struct {
	Network  string `yaml:"network" json:"network"`
	Username string `yaml:"username,omitempty" json:"username,omitempty"`
	URL      string `yaml:"url" json:"url"`
}

type Skill struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

type Education struct {
	Area        string `yaml:"area" json:"area"`
	Institution string `yaml:"institution" json:"institution"`
	StartDate   string `yaml:"start_date" json:"start_date"`
}

type Project struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
	URL         string   `yaml:"url,omitempty" json:"url,omitempty"`
}

type WorkExperience struct {
	Area        string `yaml:"area" json:"area"`
	Company     string `yaml:"company" json:"company"`
	Description string `yaml:"description" json:"description"`
	StartDate   string `yaml:"start_date" json:"start_date"`
	EndDate     string `yaml:"end_date" json:"end_date"`
}
