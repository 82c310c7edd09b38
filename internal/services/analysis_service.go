package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/jobprep/jobprep/internal/models"
)

// AnalysisStore defines the interface for analysis history storage
type AnalysisStore interface {
	Create(ctx context.Context, a *models.ResumeAnalysis) error
	ListByUserID(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error)
}

// catalogKeywords is the fixed vocabulary scanned for in both the job
// description and the resume.
var catalogKeywords = []string{
	"JavaScript", "Python", "React", "Node.js", "TypeScript", "SQL",
	"AWS", "Docker", "Kubernetes", "Git", "Agile", "Scrum",
	"Machine Learning", "Data Analysis", "Project Management",
	"Leadership", "Communication", "Problem Solving",
}

// commonMisspellings is a small list of frequent resume typos.
var commonMisspellings = []string{
	"experiance", "sucessful", "managment", "recieve", "seperate",
	"occured", "definately", "accomodate", "neccessary", "occassion",
}

var (
	reContactInfo = regexp.MustCompile(`email|phone|@`)
	reSummary     = regexp.MustCompile(`summary|objective|profile`)
	reExperience  = regexp.MustCompile(`experience|work|employment|position`)
	reEducation   = regexp.MustCompile(`education|degree|university|college`)
	reSkills      = regexp.MustCompile(`skills|technologies|competencies`)
)

// AnalysisService scores resumes against job descriptions, suggests roles
// from the catalog, and builds the openings heatmap.
type AnalysisService struct {
	store    AnalysisStore
	profiles ProfileRepository
	logger   *slog.Logger
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(store AnalysisStore, profiles ProfileRepository, logger *slog.Logger) *AnalysisService {
	return &AnalysisService{store: store, profiles: profiles, logger: logger}
}

// AnalyzeResume scores resumeText against jobDescription and records the
// result in the account's analysis history. A history write failure is
// logged but does not fail the analysis.
func (s *AnalysisService) AnalyzeResume(ctx context.Context, userID, resumeText, jobDescription string) (*models.ResumeAnalysis, error) {
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return nil, models.ErrBadRequest
	}

	resumeLower := strings.ToLower(resumeText)

	jobKeywords := extractKeywords(jobDescription)
	matched := make([]string, 0, len(jobKeywords))
	missing := make([]string, 0)
	for _, kw := range jobKeywords {
		if strings.Contains(resumeLower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	matchRatio := float64(len(matched)) / math.Max(float64(len(jobKeywords)), 1)
	score := int(math.Round(matchRatio * 100))

	sections := analyzeSections(resumeLower)
	score += sectionBonus(sections)
	if score > 100 {
		score = 100
	}

	analysis := &models.ResumeAnalysis{
		UserID:          userID,
		JobDescription:  jobDescription,
		ATSScore:        score,
		MatchedKeywords: matched,
		MissingKeywords: missing,
		SpellingErrors:  findSpellingErrors(resumeLower),
		Improvements:    generateImprovements(score, sections, missing),
		KeywordDensity:  keywordDensity(resumeText, jobKeywords),
		Sections:        sections,
	}

	if err := s.store.Create(ctx, analysis); err != nil {
		s.logger.Error("failed to save analysis", slog.String("user_id", userID), slog.Any("error", err))
	}

	return analysis, nil
}

// History returns the most recent analyses for the account
func (s *AnalysisService) History(ctx context.Context, userID string, limit int) ([]*models.ResumeAnalysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	analyses, err := s.store.ListByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to list analyses", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	return analyses, nil
}

// SuggestRoles scores the catalog against the profile's skills, filtered by
// country and sorted by match score.
func (s *AnalysisService) SuggestRoles(ctx context.Context, userID, country string, limit int) ([]models.RoleSuggestion, error) {
	if country == "" {
		country = "United States"
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	profile, err := s.profiles.GetByAccountID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to load profile for role suggestions", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	suggestions := make([]models.RoleSuggestion, 0, len(roleCatalog))
	for _, role := range roleCatalog {
		if role.Country != country {
			continue
		}

		matchedSkills := make([]string, 0, len(role.RequiredSkills))
		missingSkills := make([]string, 0)
		for _, required := range role.RequiredSkills {
			if skillsOverlap(profile.Skills, required) {
				matchedSkills = append(matchedSkills, required)
			} else {
				missingSkills = append(missingSkills, required)
			}
		}

		score := int(math.Round(float64(len(matchedSkills)) / float64(len(role.RequiredSkills)) * 100))
		suggestions = append(suggestions, models.RoleSuggestion{
			JobRole:       role,
			MatchScore:    score,
			MatchedSkills: matchedSkills,
			MissingSkills: missingSkills,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].MatchScore > suggestions[j].MatchScore
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// BuildHeatmap filters the openings dataset to the given skills and
// locations, falling back to the profile when either is empty.
func (s *AnalysisService) BuildHeatmap(ctx context.Context, userID string, skills, locations []string) (*models.Heatmap, error) {
	if len(skills) == 0 || len(locations) == 0 {
		profile, err := s.profiles.GetByAccountID(ctx, userID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			s.logger.Error("failed to load profile for heatmap", slog.String("user_id", userID), slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		if profile != nil {
			if len(skills) == 0 {
				skills = profile.Skills
			}
			if len(locations) == 0 {
				locations = profile.PreferredLocations
			}
		}
	}

	skillData := make([]models.SkillHeat, 0, len(skillOpenings))
	for _, entry := range skillOpenings {
		if skillsOverlap(skills, entry.Skill) {
			skillData = append(skillData, entry)
		}
	}

	cityData := make([]models.CityHeat, 0, len(cityOpenings))
	for _, entry := range cityOpenings {
		for _, loc := range locations {
			if containsFold(loc, entry.City) || containsFold(entry.City, loc) {
				cityData = append(cityData, entry)
				break
			}
		}
	}
	if len(cityData) == 0 {
		cityData = append(cityData, cityOpenings...)
	}

	totalOpenings := 0
	topSkills := make([]string, 0, 5)
	for _, entry := range skillData {
		totalOpenings += entry.Openings
		if len(topSkills) < 5 {
			topSkills = append(topSkills, entry.Skill)
		}
	}

	topCities := make([]string, 0, 5)
	for _, entry := range cityData {
		if len(topCities) < 5 {
			topCities = append(topCities, entry.City)
		}
	}

	return &models.Heatmap{
		SkillData:     skillData,
		CityData:      cityData,
		TotalOpenings: totalOpenings,
		TopSkills:     topSkills,
		TopCities:     topCities,
		UserSkills:    skills,
		UserLocations: locations,
	}, nil
}

func extractKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0, len(catalogKeywords))
	for _, kw := range catalogKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found = append(found, kw)
		}
	}
	return found
}

func analyzeSections(resumeLower string) models.SectionAnalysis {
	return models.SectionAnalysis{
		HasContactInfo: reContactInfo.MatchString(resumeLower),
		HasSummary:     reSummary.MatchString(resumeLower),
		HasExperience:  reExperience.MatchString(resumeLower),
		HasEducation:   reEducation.MatchString(resumeLower),
		HasSkills:      reSkills.MatchString(resumeLower),
	}
}

// sectionBonus awards five points per detected section
func sectionBonus(sections models.SectionAnalysis) int {
	bonus := 0
	for _, present := range []bool{
		sections.HasContactInfo, sections.HasSummary, sections.HasExperience,
		sections.HasEducation, sections.HasSkills,
	} {
		if present {
			bonus += 5
		}
	}
	return bonus
}

func findSpellingErrors(resumeLower string) []string {
	errs := make([]string, 0)
	for _, word := range commonMisspellings {
		if strings.Contains(resumeLower, word) {
			errs = append(errs, word)
		}
	}
	return errs
}

// keywordDensity reports occurrences per word count, as a permille rounded
// to one decimal place.
func keywordDensity(resumeText string, keywords []string) map[string]float64 {
	words := len(strings.Fields(resumeText))
	if words == 0 {
		words = 1
	}

	density := make(map[string]float64, len(keywords))
	resumeLower := strings.ToLower(resumeText)
	for _, kw := range keywords {
		count := strings.Count(resumeLower, strings.ToLower(kw))
		density[kw] = math.Round(float64(count)/float64(words)*1000*10) / 10
	}
	return density
}

func generateImprovements(score int, sections models.SectionAnalysis, missing []string) []string {
	improvements := make([]string, 0, 6)

	if score < 70 {
		improvements = append(improvements, "Include more relevant keywords from the job description")
	}
	if !sections.HasSummary {
		improvements = append(improvements, "Add a professional summary section at the top")
	}
	if !sections.HasSkills {
		improvements = append(improvements, "Include a dedicated skills section")
	}
	if len(missing) > 0 {
		sample := missing
		if len(sample) > 3 {
			sample = sample[:3]
		}
		improvements = append(improvements, fmt.Sprintf("Consider adding these relevant skills: %s", strings.Join(sample, ", ")))
	}

	improvements = append(improvements,
		"Use action verbs to start bullet points",
		"Quantify achievements with specific numbers and percentages",
		"Ensure consistent formatting throughout the document",
	)

	if len(improvements) > 6 {
		improvements = improvements[:6]
	}
	return improvements
}

// skillsOverlap matches loosely in both directions so "React" pairs with
// "React Native" and "AWS Lambda" pairs with "AWS".
func skillsOverlap(userSkills []string, required string) bool {
	for _, skill := range userSkills {
		if containsFold(skill, required) || containsFold(required, skill) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
