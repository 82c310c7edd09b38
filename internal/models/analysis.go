package models

import (
	"time"
)

// ResumeAnalysis is the result of matching a resume against a job description.
type ResumeAnalysis struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	JobDescription  string             `json:"job_description"`
	ATSScore        int                `json:"ats_score"`
	MatchedKeywords []string           `json:"matched_keywords"`
	MissingKeywords []string           `json:"missing_keywords"`
	SpellingErrors  []string           `json:"spelling_errors"`
	Improvements    []string           `json:"improvements"`
	KeywordDensity  map[string]float64 `json:"keyword_density,omitempty"`
	Sections        SectionAnalysis    `json:"section_analysis"`
	CreatedAt       time.Time          `json:"created_at"`
}

// SectionAnalysis records which standard resume sections were detected.
type SectionAnalysis struct {
	HasContactInfo bool `json:"has_contact_info"`
	HasSummary     bool `json:"has_summary"`
	HasExperience  bool `json:"has_experience"`
	HasEducation   bool `json:"has_education"`
	HasSkills      bool `json:"has_skills"`
}

// JobRole is an entry in the static role catalog used for suggestions.
type JobRole struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Country         string   `json:"country"`
	RequiredSkills  []string `json:"required_skills"`
	SalaryRange     string   `json:"salary_range"`
	JobType         string   `json:"job_type"`
	ExperienceLevel string   `json:"experience_level"`
	Description     string   `json:"description"`
}

// RoleSuggestion is a catalog role scored against a profile's skills.
type RoleSuggestion struct {
	JobRole
	MatchScore    int      `json:"match_score"`
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
}

// SkillHeat aggregates openings for a single skill across cities.
type SkillHeat struct {
	Skill      string     `json:"skill"`
	Openings   int        `json:"openings"`
	AvgSalary  int        `json:"avg_salary"`
	Growth     float64    `json:"growth"`
	Cities     []CityHeat `json:"cities"`
	SampleJobs []string   `json:"sample_jobs"`
}

// CityHeat aggregates openings for a single city.
type CityHeat struct {
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Openings  int      `json:"openings"`
	AvgSalary int      `json:"avg_salary"`
	Companies []string `json:"companies"`
}

// Heatmap is the openings dataset returned to the client.
type Heatmap struct {
	SkillData     []SkillHeat `json:"skill_data"`
	CityData      []CityHeat  `json:"city_data"`
	TotalOpenings int         `json:"total_openings"`
	TopSkills     []string    `json:"top_skills"`
	TopCities     []string    `json:"top_cities"`
	UserSkills    []string    `json:"user_skills"`
	UserLocations []string    `json:"user_locations"`
}
