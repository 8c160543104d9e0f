package models

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity kinds.
const (
	TypeScholarships = "Scholarships"
	TypeInternships  = "Internships"
	TypeFellowships  = "Fellowships"
)

// Funding types.
const (
	FundingFullyFunded    = "Fully Funded"
	FundingPartialFunding = "Partial Funding"
	FundingMeritBased     = "Merit-based"
	FundingNeedBased      = "Need-based"
)

// Levels of study.
const (
	LevelBachelors = "Bachelors"
	LevelMasters   = "Masters"
	LevelPhD       = "PhD"
	LevelPostdoc   = "Postdoc"
)

// Opportunity is one scholarship, internship or fellowship listing.
// Records come from the build-time content index and are immutable at
// runtime; favoriting creates a separate relation, it never touches the
// listing itself.
type Opportunity struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Organization    string   `json:"organization"`
	Location        string   `json:"location"`
	Deadline        string   `json:"deadline"`
	FundingType     string   `json:"funding_type"`
	LevelOfStudy    []string `json:"level_of_study"`
	SubjectAreas    []string `json:"subject_areas"`
	Description     string   `json:"description"`
	Eligibility     string   `json:"eligibility"`
	Benefits        string   `json:"benefits"`
	ApplicationLink string   `json:"application_link"`
	Type            string   `json:"type"`
	IsActive        bool     `json:"is_active"`
	IsFavorited     bool     `json:"is_favorited"`
}

// BlogPost is one published article. Content is sanitized HTML produced
// by the content pipeline. Upvotes and Views are aggregate counters held
// in the interaction store, not recomputed from the interaction log.
type BlogPost struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Author        string   `json:"author"`
	PublishedDate string   `json:"published_date"`
	ReadTime      string   `json:"read_time"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	ImageURL      string   `json:"image_url"`
	Upvotes       int      `json:"upvotes"`
	Views         int      `json:"views"`
	HasUpvoted    bool     `json:"has_upvoted"`
	IsPublished   bool     `json:"is_published"`
}

// Favorite links a user to an opportunity. Identity is the
// (user_id, opportunity_id) pair itself.
type Favorite struct {
	UserID        uuid.UUID `json:"user_id"`
	OpportunityID string    `json:"opportunity_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// BlogInteraction is the per-user flags for one post. At most one row
// exists per (user, post) pair.
type BlogInteraction struct {
	UserID     uuid.UUID `json:"user_id"`
	PostID     string    `json:"post_id"`
	HasUpvoted bool      `json:"has_upvoted"`
	HasViewed  bool      `json:"has_viewed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Help request statuses. Submitted is set on creation; the rest are
// assigned by administrators only.
const (
	HelpStatusSubmitted  = "submitted"
	HelpStatusInReview   = "in-review"
	HelpStatusInProgress = "in-progress"
	HelpStatusCompleted  = "completed"
	HelpStatusOnHold     = "on-hold"
)

// Urgency levels for help requests.
const (
	UrgencyStandard = "standard"
	UrgencyPriority = "priority"
	UrgencyUrgent   = "urgent"
)

// ValidHelpStatus reports whether s is one of the allowed request statuses.
func ValidHelpStatus(s string) bool {
	switch s {
	case HelpStatusSubmitted, HelpStatusInReview, HelpStatusInProgress, HelpStatusCompleted, HelpStatusOnHold:
		return true
	}
	return false
}

// ValidUrgency reports whether s is one of the allowed urgency levels.
func ValidUrgency(s string) bool {
	switch s {
	case UrgencyStandard, UrgencyPriority, UrgencyUrgent:
		return true
	}
	return false
}

// DocumentRef points at a file uploaded alongside a help request.
type DocumentRef struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

// HelpRequest is a "help with my application" submission. Status is the
// only field that changes after creation.
type HelpRequest struct {
	ID                     uuid.UUID     `json:"id"`
	UserID                 uuid.UUID     `json:"user_id"`
	ServiceType            string        `json:"service_type"`
	ScholarshipType        string        `json:"scholarship_type"`
	FullApplicationService bool          `json:"full_application_service"`
	Deadline               string        `json:"deadline"`
	CurrentStatus          string        `json:"current_status"`
	SpecificHelp           string        `json:"specific_help"`
	AdditionalInfo         string        `json:"additional_info"`
	Urgency                string        `json:"urgency"`
	Status                 string        `json:"status"`
	Documents              []DocumentRef `json:"documents"`
	SubmittedAt            time.Time     `json:"submitted_at"`
}

// ContactSubmission is one contact-form message.
type ContactSubmission struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// UserDocument is the stored metadata for one uploaded file.
type UserDocument struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	URL         string    `json:"url"`
	Preview     string    `json:"preview"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
