package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Difficulty levels a lesson can declare.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Question types the loader understands. The set is open in the content
// format; these are the types the platform currently renders.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

// Question difficulty ratings.
const (
	QuestionDifficultyEasy   = "easy"
	QuestionDifficultyMedium = "medium"
	QuestionDifficultyHard   = "hard"
)

// Category represents the 'categories' table. Categories sit at the top of
// the hierarchy and are seeded by operators, never created by the loader.
type Category struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Slug      string    `gorm:"column:slug"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Category) TableName() string {
	return "categories"
}

// Topic represents the 'topics' table. The natural key is (category_id, slug).
type Topic struct {
	ID            uint      `gorm:"column:id;primaryKey"`
	CategoryID    uint      `gorm:"column:category_id"`
	Name          string    `gorm:"column:name"`
	Slug          string    `gorm:"column:slug"`
	Description   string    `gorm:"column:description"`
	EstimatedTime int       `gorm:"column:estimated_time"`
	OrderIndex    int       `gorm:"column:order_index"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Topic) TableName() string {
	return "topics"
}

// Lesson represents the 'lessons' table. The natural key is (topic_id, slug).
// KeyPoints is an ordered sequence stored as a JSON array column.
type Lesson struct {
	ID              uint           `gorm:"column:id;primaryKey"`
	TopicID         uint           `gorm:"column:topic_id"`
	Title           string         `gorm:"column:title"`
	Slug            string         `gorm:"column:slug"`
	Content         string         `gorm:"column:content"`
	Summary         string         `gorm:"column:summary"`
	DifficultyLevel string         `gorm:"column:difficulty_level"`
	EstimatedTime   int            `gorm:"column:estimated_time"`
	OrderIndex      int            `gorm:"column:order_index"`
	KeyPoints       datatypes.JSON `gorm:"column:key_points"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the table name.
func (Lesson) TableName() string {
	return "lessons"
}

// CodeExample represents the 'code_examples' table. Code examples have no
// natural key of their own; the loader replaces a lesson's full set on every
// load, so surrogate IDs are not stable across loads.
type CodeExample struct {
	ID          uint      `gorm:"column:id;primaryKey"`
	LessonID    uint      `gorm:"column:lesson_id"`
	Title       string    `gorm:"column:title"`
	Description string    `gorm:"column:description"`
	Language    string    `gorm:"column:language"`
	Code        string    `gorm:"column:code"`
	Explanation string    `gorm:"column:explanation"`
	OrderIndex  int       `gorm:"column:order_index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (CodeExample) TableName() string {
	return "code_examples"
}

// QuizQuestion represents the 'quiz_questions' table. Like code examples,
// questions are fully replaced per lesson on every load. Options is an
// ordered sequence stored as a JSON array column.
type QuizQuestion struct {
	ID            uint           `gorm:"column:id;primaryKey"`
	LessonID      uint           `gorm:"column:lesson_id"`
	QuestionText  string         `gorm:"column:question_text"`
	QuestionType  string         `gorm:"column:question_type"`
	Options       datatypes.JSON `gorm:"column:options"`
	CorrectAnswer string         `gorm:"column:correct_answer"`
	Explanation   string         `gorm:"column:explanation"`
	Difficulty    string         `gorm:"column:difficulty"`
	Points        int            `gorm:"column:points"`
	OrderIndex    int            `gorm:"column:order_index"`
	CreatedAt     time.Time      `gorm:"column:created_at"`
}

// TableName overrides the table name.
func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// JSONSequence serializes an ordered string sequence into its stable column
// representation. A nil slice is stored as an empty array, not NULL, so that
// round-tripping always yields a valid sequence.
func JSONSequence(items []string) (datatypes.JSON, error) {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// SequenceFromJSON decodes a stored JSON array column back into the ordered
// string sequence it was written from.
func SequenceFromJSON(raw datatypes.JSON) ([]string, error) {
	if len(raw) == 0 {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
