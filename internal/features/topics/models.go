package topics

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StanceAgree    = "agree"
	StanceDisagree = "disagree"
)

// DailyQuestion is the topic everyone votes and chats about on one day.
type DailyQuestion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Question      string    `gorm:"size:500;not null" json:"question"`
	AgreeCount    int       `gorm:"default:0" json:"agree_count"`
	DisagreeCount int       `gorm:"default:0" json:"disagree_count"`
	Date          string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (DailyQuestion) TableName() string { return "daily_questions" }

func (q *DailyQuestion) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&q.ID)
	return nil
}

// Vote is one user's stance on one question.
type Vote struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dq_votes_pair" json:"question_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dq_votes_pair;index" json:"user_id"`
	Stance     string    `gorm:"size:10;not null" json:"stance"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Vote) TableName() string { return "daily_question_votes" }

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	models.EnsureID(&v.ID)
	return nil
}

// TopicView adds the caller's stance and vote split to a question.
type TopicView struct {
	Topic           DailyQuestion `json:"topic"`
	UserStance      string        `json:"user_stance"`
	Voted           bool          `json:"voted"`
	AgreePercent    int           `json:"agree_percent"`
	DisagreePercent int           `json:"disagree_percent"`
	TotalVotes      int           `json:"total_votes"`
}

func newTopicView(q DailyQuestion, stance string) TopicView {
	total := q.AgreeCount + q.DisagreeCount
	v := TopicView{Topic: q, UserStance: stance, Voted: stance != "", TotalVotes: total}
	if total > 0 {
		v.AgreePercent = q.AgreeCount * 100 / total
		v.DisagreePercent = 100 - v.AgreePercent
	}
	return v
}

// SeedQuestions rotates in when no topic was scheduled for a day.
var SeedQuestions = []string{
	"Is it better to solve puzzles alone or with friends?",
	"Should homework be banned in primary schools?",
	"Is pineapple an acceptable pizza topping?",
	"Are video games a form of art?",
	"Should everyone learn to code?",
	"Is it okay to look up the answer when you're stuck on a puzzle?",
	"Are cats better companions than dogs?",
	"Should phones be allowed at the dinner table?",
	"Is a four-day work week a good idea?",
	"Are board games more fun than video games?",
	"Should cities ban cars from their centers?",
	"Is it better to be a morning person than a night owl?",
	"Should social media have a minimum age of 16?",
	"Is reading the book always better than watching the movie?",
	"Should schools teach chess?",
	"Is space exploration worth the cost?",
	"Are handwritten letters better than text messages?",
	"Should tipping be replaced by higher wages?",
	"Is it better to travel solo or in a group?",
	"Would you rather have a daily puzzle or a weekly mega puzzle?",
}
