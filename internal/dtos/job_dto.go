package dtos

type JobCreationRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Description string `json:"description"`

	// Optional Fields
	Location       *string `json:"location"`
	SalaryRange    *string `json:"salary_range"`
	ApplyURL       *string `json:"apply_url"`
	ParsedSkills   *string `json:"parsed_skills"`
	SeniorityLevel *string `json:"seniority_level"`
	Source         string  `json:"source"` // Defaults to "manual_paste" if empty
}

type JobUpdateRequest struct {
	Title          Optional[string] `json:"title"`
	Company        Optional[string] `json:"company"`
	Description    Optional[string] `json:"description"`
	Location       Optional[string] `json:"location"`
	SalaryRange    Optional[string] `json:"salary_range"`
	ApplyURL       Optional[string] `json:"apply_url"`
	ParsedSkills   Optional[string] `json:"parsed_skills"`
	SeniorityLevel Optional[string] `json:"seniority_level"`
	Source         Optional[string] `json:"source"`
}

type JobExtractionRequest struct {
	RawJD string `json:"raw_jd" binding:"required,min=10,max=10000"`
	URL   string `json:"url"`
	// UseLLM defaults to true when omitted.
	UseLLM *bool `json:"use_llm"`
}

type ParsedJob struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       *string  `json:"location"`
	SalaryRange    *string  `json:"salary_range"`
	SeniorityLevel *string  `json:"seniority_level"`
	Skills         []string `json:"skills"`
	Description    string   `json:"description"`
	ApplyURL       *string  `json:"apply_url"`
	Confidence     float64  `json:"confidence"`
	Method         string   `json:"method"`
}

type ParserHealth struct {
	Status            string  `json:"status"`
	AIAvailable       bool    `json:"ai_available"`
	Method            string  `json:"method"`
	FallbackAvailable bool    `json:"fallback_available"`
	Model             *string `json:"model"`
}
