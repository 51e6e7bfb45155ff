package dtos

type InterviewCreationRequest struct {
	ApplicationID uint     `json:"application_id" binding:"required"`
	Date          FlexTime `json:"date"`
	Time          string   `json:"time" binding:"required"`
	Type          string   `json:"type"`
	Interviewer   *string  `json:"interviewer"`
	Location      *string  `json:"location"`
	Notes         *string  `json:"notes"`
	PrepChecklist *string  `json:"prep_checklist"`
	Reminders     *bool    `json:"reminders"`
}

type InterviewUpdateRequest struct {
	Date          Optional[FlexTime] `json:"date"`
	Time          Optional[string]   `json:"time"`
	Type          Optional[string]   `json:"type"`
	Interviewer   Optional[string]   `json:"interviewer"`
	Location      Optional[string]   `json:"location"`
	Notes         Optional[string]   `json:"notes"`
	PrepChecklist Optional[string]   `json:"prep_checklist"`
	Reminders     Optional[bool]     `json:"reminders"`
}

type DeadlineCreationRequest struct {
	ApplicationID uint     `json:"application_id" binding:"required"`
	Title         string   `json:"title" binding:"required"`
	DueDate       FlexTime `json:"due_date"`
	Type          string   `json:"type"`
	Priority      string   `json:"priority"`
	Notes         *string  `json:"notes"`
}

type DeadlineUpdateRequest struct {
	Title     Optional[string]   `json:"title"`
	DueDate   Optional[FlexTime] `json:"due_date"`
	Type      Optional[string]   `json:"type"`
	Priority  Optional[string]   `json:"priority"`
	Completed Optional[bool]     `json:"completed"`
	Notes     Optional[string]   `json:"notes"`
}

type ProfileReplaceRequest struct {
	FullName    string  `json:"full_name" binding:"required"`
	PhoneNumber *string `json:"phone_number"`
	Location    *string `json:"location"`
	Headline    *string `json:"headline"`
}

type ProfilePatchRequest struct {
	FullName    Optional[string] `json:"full_name"`
	PhoneNumber Optional[string] `json:"phone_number"`
	Location    Optional[string] `json:"location"`
	Headline    Optional[string] `json:"headline"`
}

type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type UserSummary struct {
	ID       uint    `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
}
