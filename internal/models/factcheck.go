package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Fact-check verdicts, ordered from most to least credible. The order is
// also the deterministic tie-break for consensus computation.
const (
	VerdictTrue            = "true"
	VerdictMostlyTrue      = "mostly-true"
	VerdictMixed           = "mixed"
	VerdictMostlyFalse     = "mostly-false"
	VerdictFalse           = "false"
	VerdictUnsubstantiated = "unsubstantiated"
	VerdictPending         = "pending" // articles with no fact-checks yet
)

// Verdicts lists every valid fact-check verdict in canonical order
var Verdicts = []string{
	VerdictTrue,
	VerdictMostlyTrue,
	VerdictMixed,
	VerdictMostlyFalse,
	VerdictFalse,
	VerdictUnsubstantiated,
}

// IsValidVerdict reports whether v is an accepted fact-check verdict
func IsValidVerdict(v string) bool {
	for _, known := range Verdicts {
		if v == known {
			return true
		}
	}
	return false
}

// FactCheck is one reviewer's verdict on one article. A reviewer may
// fact-check a given article at most once.
type FactCheck struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	ArticleID        uuid.UUID `json:"article_id" db:"article_id" gorm:"not null;index;uniqueIndex:idx_factchecks_article_reviewer"`
	ReviewerID       uuid.UUID `json:"reviewer_id" db:"reviewer_id" gorm:"not null;index;uniqueIndex:idx_factchecks_article_reviewer"`
	ReviewerUsername string    `json:"reviewer_username" db:"reviewer_username" gorm:"not null"` // denormalized for faster queries

	Verdict    string `json:"verdict" db:"verdict" gorm:"not null"`
	Confidence int    `json:"confidence" db:"confidence" gorm:"not null"` // 1-10

	Evidence string         `json:"evidence" db:"evidence" gorm:"type:text;not null"`
	Sources  pq.StringArray `json:"sources" db:"sources" gorm:"type:text[]"`

	Expertise pq.StringArray `json:"expertise" db:"expertise" gorm:"type:text[]"`

	// Community feedback; NetVotes is kept equal to Upvotes - Downvotes
	Upvotes   int `json:"upvotes" db:"upvotes" gorm:"default:0"`
	Downvotes int `json:"downvotes" db:"downvotes" gorm:"default:0"`
	NetVotes  int `json:"net_votes" db:"net_votes" gorm:"default:0"`

	Status             string `json:"status" db:"status" gorm:"default:active"` // active, disputed, endorsed, flagged
	IsExpertEndorsed   bool   `json:"is_expert_endorsed" db:"is_expert_endorsed" gorm:"default:false"`
	ExpertEndorsements int    `json:"expert_endorsements" db:"expert_endorsements" gorm:"default:0"`

	// Snapshot of the reviewer's reputation at submission time. Immutable;
	// it is the weight basis for credibility aggregation and deliberately
	// does not track the reviewer's current reputation.
	ReviewerReputationAtTime int `json:"reviewer_reputation_at_time" db:"reviewer_reputation_at_time" gorm:"default:0"`

	QualityScore     int  `json:"quality_score" db:"quality_score" gorm:"default:0"`
	HelpfulnessVotes int  `json:"helpfulness_votes" db:"helpfulness_votes" gorm:"default:0"`
	IsHidden         bool `json:"is_hidden" db:"is_hidden" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Article  Article `json:"article,omitempty" gorm:"foreignKey:ArticleID;references:ID"`
	Reviewer User    `json:"reviewer,omitempty" gorm:"foreignKey:ReviewerID;references:ID"`
}

// TableName sets the table name for the FactCheck model
func (FactCheck) TableName() string {
	return "fact_checks"
}

// BeforeCreate assigns the ID when the database default does not apply
func (fc *FactCheck) BeforeCreate(tx *gorm.DB) error {
	if fc.ID == uuid.Nil {
		fc.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the net vote count consistent with the tallies
func (fc *FactCheck) BeforeSave(tx *gorm.DB) error {
	fc.NetVotes = fc.Upvotes - fc.Downvotes
	return nil
}
