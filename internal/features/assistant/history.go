package assistant

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GreetingID   = "greeting"
	GreetingText = "Hi! I'm the PuzzlePals assistant. Ask me anything about today's topic, or just chat."

	// historyOffset spaces reconstructed legacy pairs apart.
	historyOffset = time.Minute
)

func greeting(at time.Time) Message {
	return Message{ID: GreetingID, Text: GreetingText, IsUser: false, Timestamp: at}
}

// Reconcile rebuilds a conversation from the legacy parallel arrays: greeting
// first, then q[i] followed by a[i] when present. Timestamps are synthetic,
// counted back from now by one offset per remaining pair, so the order is only
// an approximation when the arrays were not appended in lockstep.
func Reconcile(questions, answers []string, now time.Time) []Message {
	pairs := len(questions)
	if len(answers) > pairs {
		pairs = len(answers)
	}

	out := make([]Message, 0, 1+len(questions)+len(answers))
	out = append(out, greeting(now.Add(-time.Duration(pairs+1)*historyOffset)))

	for i := 0; i < pairs; i++ {
		base := now.Add(-time.Duration(pairs-i) * historyOffset)
		if i < len(questions) {
			out = append(out, Message{
				ID:        "q" + strconv.Itoa(i),
				Text:      questions[i],
				IsUser:    true,
				Timestamp: base,
			})
		}
		if i < len(answers) {
			out = append(out, Message{
				ID:        "a" + strconv.Itoa(i),
				Text:      answers[i],
				IsUser:    false,
				Timestamp: base.Add(time.Second),
			})
		}
	}
	return out
}

// History persists assistant turns as ordered records and reads older users'
// parallel arrays when no records exist yet.
type History struct {
	db *gorm.DB
}

func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

// Load returns the conversation with the greeting first.
func (h *History) Load(ctx context.Context, userID uuid.UUID, now time.Time) ([]Message, error) {
	var records []Record
	err := h.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, role DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load assistant history: %w", err)
	}

	if len(records) > 0 {
		out := make([]Message, 0, len(records)+1)
		out = append(out, greeting(records[0].CreatedAt.Add(-time.Second)))
		for _, r := range records {
			out = append(out, Message{
				ID:        r.ID.String(),
				Text:      r.Text,
				IsUser:    r.Role == RoleUser,
				Timestamp: r.CreatedAt,
			})
		}
		return out, nil
	}

	var user models.User
	err = h.db.WithContext(ctx).Select("id", "question_history", "answer_history").
		First(&user, "id = ?", userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy history: %w", err)
	}
	return Reconcile(user.QuestionHistory, user.AnswerHistory, now), nil
}

// Append stores a completed exchange. The answer is stamped after the question
// so ordering holds even with coarse clocks. The legacy arrays are extended too.
func (h *History) Append(ctx context.Context, userID uuid.UUID, question, answer string, at time.Time) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records := []Record{
			{UserID: userID, Role: RoleUser, Text: question, CreatedAt: at},
			{UserID: userID, Role: RoleAssistant, Text: answer, CreatedAt: at.Add(time.Millisecond)},
		}
		if err := tx.Create(&records).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Select("id", "question_history", "answer_history").First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"question_history": append(user.QuestionHistory, question),
			"answer_history":   append(user.AnswerHistory, answer),
		}).Error
	})
}

// Clear removes every stored turn for the user, records and legacy arrays alike.
func (h *History) Clear(ctx context.Context, userID uuid.UUID) error {
	return h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&Record{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
			"question_history": datatypes.JSONSlice[string]{},
			"answer_history":   datatypes.JSONSlice[string]{},
		}).Error
	})
}
