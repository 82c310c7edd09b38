package services

import "github.com/jobprep/jobprep/internal/models"

// roleCatalog is the built-in set of openings scored for role suggestions.
// A job board integration would replace this with live listings.
var roleCatalog = []models.JobRole{
	{
		ID:              "1",
		Title:           "Senior Frontend Developer",
		Company:         "TechCorp Inc.",
		Location:        "San Francisco, CA",
		Country:         "United States",
		RequiredSkills:  []string{"React", "TypeScript", "Node.js", "AWS", "Git"},
		SalaryRange:     "$120k - $160k",
		JobType:         "Full-time",
		ExperienceLevel: "Senior",
		Description:     "We are looking for a Senior Frontend Developer to join our dynamic team building customer-facing products.",
	},
	{
		ID:              "2",
		Title:           "Full Stack Engineer",
		Company:         "StartupXYZ",
		Location:        "Remote",
		Country:         "United States",
		RequiredSkills:  []string{"JavaScript", "React", "Python", "SQL", "Docker"},
		SalaryRange:     "$90k - $130k",
		JobType:         "Remote",
		ExperienceLevel: "Mid",
		Description:     "Join our fast-growing startup as a Full Stack Engineer working across the whole product.",
	},
	{
		ID:              "3",
		Title:           "Backend Engineer",
		Company:         "FinServe Global",
		Location:        "New York, NY",
		Country:         "United States",
		RequiredSkills:  []string{"Python", "SQL", "AWS", "Docker", "Kubernetes"},
		SalaryRange:     "$110k - $150k",
		JobType:         "Full-time",
		ExperienceLevel: "Mid",
		Description:     "Build and operate the transaction services backing our payments platform.",
	},
	{
		ID:              "4",
		Title:           "Data Scientist",
		Company:         "Insight Analytics",
		Location:        "Austin, TX",
		Country:         "United States",
		RequiredSkills:  []string{"Python", "Machine Learning", "Data Analysis", "SQL"},
		SalaryRange:     "$115k - $155k",
		JobType:         "Hybrid",
		ExperienceLevel: "Senior",
		Description:     "Turn raw product data into models that drive customer recommendations.",
	},
	{
		ID:              "5",
		Title:           "Engineering Manager",
		Company:         "CloudWorks",
		Location:        "Seattle, WA",
		Country:         "United States",
		RequiredSkills:  []string{"Leadership", "Project Management", "Agile", "Communication"},
		SalaryRange:     "$150k - $190k",
		JobType:         "Full-time",
		ExperienceLevel: "Senior",
		Description:     "Lead a team of eight engineers delivering our infrastructure automation suite.",
	},
	{
		ID:              "6",
		Title:           "DevOps Engineer",
		Company:         "ScaleOps Ltd.",
		Location:        "London",
		Country:         "United Kingdom",
		RequiredSkills:  []string{"Kubernetes", "Docker", "AWS", "Git", "Python"},
		SalaryRange:     "£70k - £95k",
		JobType:         "Full-time",
		ExperienceLevel: "Mid",
		Description:     "Own the CI/CD pipelines and cluster operations for our SaaS platform.",
	},
}

// skillOpenings is the built-in openings dataset aggregated per skill.
var skillOpenings = []models.SkillHeat{
	{
		Skill:     "React",
		Openings:  1250,
		AvgSalary: 95000,
		Growth:    15.2,
		Cities: []models.CityHeat{
			{City: "San Francisco", Country: "US", Openings: 320, AvgSalary: 125000, Companies: []string{"Meta", "Google", "Airbnb"}},
			{City: "New York", Country: "US", Openings: 280, AvgSalary: 110000, Companies: []string{"Goldman Sachs", "JPMorgan", "Spotify"}},
			{City: "Seattle", Country: "US", Openings: 220, AvgSalary: 115000, Companies: []string{"Amazon", "Microsoft", "Expedia"}},
		},
		SampleJobs: []string{"Frontend Developer", "Full Stack Engineer", "React Developer", "UI Engineer"},
	},
	{
		Skill:     "Python",
		Openings:  1180,
		AvgSalary: 105000,
		Growth:    22.8,
		Cities: []models.CityHeat{
			{City: "San Francisco", Country: "US", Openings: 350, AvgSalary: 135000, Companies: []string{"Google", "Uber", "Dropbox"}},
			{City: "Austin", Country: "US", Openings: 190, AvgSalary: 95000, Companies: []string{"Tesla", "Indeed", "Dell"}},
			{City: "Boston", Country: "US", Openings: 160, AvgSalary: 105000, Companies: []string{"HubSpot", "Wayfair", "Akamai"}},
		},
		SampleJobs: []string{"Data Scientist", "Backend Developer", "ML Engineer", "DevOps Engineer"},
	},
	{
		Skill:     "TypeScript",
		Openings:  940,
		AvgSalary: 98000,
		Growth:    18.5,
		Cities: []models.CityHeat{
			{City: "New York", Country: "US", Openings: 240, AvgSalary: 112000, Companies: []string{"MongoDB", "Datadog", "Squarespace"}},
			{City: "Seattle", Country: "US", Openings: 180, AvgSalary: 118000, Companies: []string{"Microsoft", "Zillow", "Tableau"}},
			{City: "Denver", Country: "US", Openings: 110, AvgSalary: 98000, Companies: []string{"Gusto", "Checkr", "Ibotta"}},
		},
		SampleJobs: []string{"Frontend Developer", "Full Stack Engineer", "Platform Engineer"},
	},
	{
		Skill:     "AWS",
		Openings:  1020,
		AvgSalary: 112000,
		Growth:    19.7,
		Cities: []models.CityHeat{
			{City: "Seattle", Country: "US", Openings: 310, AvgSalary: 128000, Companies: []string{"Amazon", "Remitly", "Outreach"}},
			{City: "San Francisco", Country: "US", Openings: 260, AvgSalary: 132000, Companies: []string{"Salesforce", "Slack", "Twilio"}},
			{City: "Chicago", Country: "US", Openings: 140, AvgSalary: 105000, Companies: []string{"Grubhub", "Morningstar", "Sprout Social"}},
		},
		SampleJobs: []string{"Cloud Engineer", "DevOps Engineer", "Solutions Architect"},
	},
	{
		Skill:     "Kubernetes",
		Openings:  760,
		AvgSalary: 118000,
		Growth:    25.1,
		Cities: []models.CityHeat{
			{City: "San Francisco", Country: "US", Openings: 210, AvgSalary: 140000, Companies: []string{"Google", "Databricks", "HashiCorp"}},
			{City: "New York", Country: "US", Openings: 170, AvgSalary: 125000, Companies: []string{"Bloomberg", "Two Sigma", "Datadog"}},
			{City: "Austin", Country: "US", Openings: 120, AvgSalary: 110000, Companies: []string{"VMware", "Cloudflare", "Oracle"}},
		},
		SampleJobs: []string{"Platform Engineer", "SRE", "Infrastructure Engineer"},
	},
}

// cityOpenings is the built-in openings dataset aggregated per city.
var cityOpenings = []models.CityHeat{
	{City: "San Francisco", Country: "US", Openings: 1640, AvgSalary: 125000, Companies: []string{"Google", "Meta", "Uber", "Airbnb"}},
	{City: "New York", Country: "US", Openings: 1180, AvgSalary: 108000, Companies: []string{"Goldman Sachs", "JPMorgan", "Spotify", "MongoDB"}},
	{City: "Seattle", Country: "US", Openings: 860, AvgSalary: 118000, Companies: []string{"Amazon", "Microsoft", "Zillow", "Expedia"}},
	{City: "Austin", Country: "US", Openings: 540, AvgSalary: 98000, Companies: []string{"Tesla", "Indeed", "Oracle", "Dell"}},
	{City: "Boston", Country: "US", Openings: 470, AvgSalary: 104000, Companies: []string{"HubSpot", "Wayfair", "Akamai", "Toast"}},
}
