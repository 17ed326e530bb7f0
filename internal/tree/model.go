package tree

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/auth"
	"gorm.io/datatypes"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

const (
	unavailableReasoning = "AI service unavailable. Manual review required."
	invalidReasoning     = "AI service returned invalid response. Manual review required."
)

// leaderboardSize is the number of tenants ranked on the leaderboard.
const leaderboardSize = 10

// AIAnalysis is the classifier verdict stored with a submission.
type AIAnalysis struct {
	Classification string    `json:"classification"`
	Confidence     float64   `json:"confidence"`
	Reasoning      string    `json:"reasoning"`
	ModelUsed      string    `json:"modelUsed"`
	AnalyzedAt     time.Time `json:"analyzedAt"`
	ParseFailure   bool      `json:"parseFailure,omitempty"`
}

type TreeSubmission struct {
	ID            uint                           `gorm:"primaryKey" json:"id"`
	UserID        uint                           `gorm:"not null;index" json:"userId"`
	User          *auth.User                     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ImageURL      string                         `gorm:"size:255;not null" json:"imageUrl"`
	Location      string                         `gorm:"size:255;not null" json:"location"`
	PlantedDate   *time.Time                     `json:"plantedDate"`
	AIAnalysis    datatypes.JSONType[AIAnalysis] `gorm:"type:jsonb" json:"aiAnalysis"`
	Status        string                         `gorm:"size:20;not null;default:'pending';index:idx_tree_status_month,priority:1" json:"status"`
	AdminDecision string                         `gorm:"type:text" json:"adminDecision,omitempty"`
	ReviewedBy    *uint                          `json:"reviewedBy"`
	ReviewedAt    *time.Time                     `json:"reviewedAt"`
	PointsAwarded int                            `gorm:"not null;default:0" json:"pointsAwarded"`
	Month         string                         `gorm:"size:7;not null;index:idx_tree_status_month,priority:2" json:"month"`
	CreatedAt     time.Time                      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                      `json:"updatedAt"`
}

type SubmitInput struct {
	Location    string `form:"location" binding:"required,max=255"`
	PlantedDate string `form:"plantedDate"`
}

type DecisionInput struct {
	AdminDecision string `json:"adminDecision"`
}

type LeaderboardEntry struct {
	ID         uint   `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	TreePoints int    `json:"treePoints"`
}

// Reward is the outcome of a top-reward sweep.
type Reward struct {
	Tenant   LeaderboardEntry `json:"tenant"`
	BillID   uint             `json:"billId"`
	Month    string           `json:"month"`
	Discount float64          `json:"discount"`
	Total    float64          `json:"total"`
}
