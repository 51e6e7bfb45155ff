package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// Salaries go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Rows are hard-deleted so the database cascades declared below apply.

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Location    *string `json:"location"`
	Headline    *string `json:"headline"`

	Jobs         []Job         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Resumes      []Resume      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Interviews   []Interview   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Offers       []Offer       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Deadlines    []Deadline    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Activities   []Activity    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`

	Title          string  `gorm:"index;not null" json:"title"`
	Company        string  `gorm:"index;not null" json:"company"`
	Location       *string `json:"location"`
	SalaryRange    *string `json:"salary_range"`
	Description    string  `gorm:"type:text" json:"description"`
	ApplyURL       *string `json:"apply_url"`
	ParsedSkills   *string `json:"parsed_skills"`
	SeniorityLevel *string `json:"seniority_level"`
	Source         string  `gorm:"not null" json:"source"`

	Applications []Application `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Resume struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UploadedAt time.Time `gorm:"index;autoCreateTime" json:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`

	Filename      string  `gorm:"index;not null" json:"filename"`
	FilePath      string  `gorm:"not null" json:"-"`
	FileType      string  `gorm:"not null" json:"file_type"`
	FileSize      *int64  `json:"file_size"`
	ExtractedText *string `gorm:"type:text" json:"extracted_text"`
	Tags          *string `json:"tags"`

	Applications []Application `gorm:"foreignKey:ResumeID;constraint:OnDelete:SET NULL" json:"-"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	JobID     uint      `gorm:"index;not null" json:"job_id"`
	ResumeID  *uint     `gorm:"index" json:"resume_id"`

	Status          ApplicationStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	AppliedDate     *time.Time        `gorm:"index" json:"applied_date"`
	InterviewDate   *time.Time        `json:"interview_date"`
	RejectedDate    *time.Time        `json:"rejected_date"`
	RejectionReason *string           `json:"rejection_reason"`
	Notes           *string           `gorm:"type:text" json:"notes"`

	Interviews []Interview `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Offers     []Offer     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Deadlines  []Deadline  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Interview struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`

	Date          time.Time `gorm:"not null" json:"date"`
	Time          string    `json:"time"`
	Type          string    `gorm:"not null" json:"type"`
	Interviewer   *string   `json:"interviewer"`
	Location      *string   `json:"location"`
	Notes         *string   `gorm:"type:text" json:"notes"`
	PrepChecklist *string   `gorm:"type:text" json:"prep_checklist"`
	Reminders     bool      `json:"reminders"`
}

// Offer is the single source of truth for compensation once an application
// reaches the offer stage. CompanyName and Position are copied from the Job
// when the offer is created and are not kept in sync afterwards.
type Offer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	ApplicationID uint      `gorm:"uniqueIndex;not null" json:"application_id"`

	CompanyName     string          `gorm:"not null" json:"company_name"`
	Position        string          `gorm:"not null" json:"position"`
	Salary          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"salary"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	SalaryFrequency string          `gorm:"type:varchar(10);not null" json:"salary_frequency"`
	PositionType    *string         `json:"position_type"`
	Location        *string         `json:"location"`

	StartDate datatypes.Date `gorm:"not null" json:"start_date"`
	OfferDate datatypes.Date `gorm:"not null" json:"offer_date"`
	Deadline  time.Time      `gorm:"not null" json:"deadline"`

	Benefits           *string     `gorm:"type:text" json:"benefits"`
	Notes              *string     `gorm:"type:text" json:"notes"`
	Status             OfferStatus `gorm:"type:varchar(20);index;not null" json:"status"`
	NegotiationHistory *string     `gorm:"type:text" json:"negotiation_history"`
}

type Deadline struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	ApplicationID uint      `gorm:"index;not null" json:"application_id"`

	Title     string    `gorm:"not null" json:"title"`
	DueDate   time.Time `gorm:"index;not null" json:"due_date"`
	Type      string    `gorm:"not null" json:"type"`
	Priority  string    `gorm:"not null" json:"priority"`
	Completed bool      `json:"completed"`
	Notes     *string   `gorm:"type:text" json:"notes"`
}

// Activity is an append-only audit row. Details holds action-specific JSON.
type Activity struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	UserID     uint           `gorm:"index;not null" json:"user_id"`
	Action     string         `gorm:"index;not null" json:"action"`
	EntityType *string        `json:"entity_type"`
	EntityID   *uint          `json:"entity_id"`
	Details    datatypes.JSON `json:"details"`
}

// All lists every table in dependency order for migrations.
func All() []any {
	return []any{
		&User{}, &Job{}, &Resume{}, &Application{},
		&Interview{}, &Offer{}, &Deadline{}, &Activity{},
	}
}
