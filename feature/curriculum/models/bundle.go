package models

import "sort"

// Bundle is the loader's only input: one topic's worth of curriculum content
// addressed by slug-based natural keys. A bundle is treated as immutable once
// validated; the loader never mutates it.
type Bundle struct {
	CategorySlug string        `json:"category_slug" validate:"required,slug"`
	Topic        TopicInput    `json:"topic"`
	Lessons      []LessonInput `json:"lessons"`
}

// BundleID identifies a bundle by its natural key path.
func (b *Bundle) BundleID() string {
	return b.CategorySlug + "/" + b.Topic.Slug
}

// SortedLessons returns the bundle's lessons in ascending order_index order
// without mutating the bundle.
func (b *Bundle) SortedLessons() []LessonInput {
	lessons := make([]LessonInput, len(b.Lessons))
	copy(lessons, b.Lessons)
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].OrderIndex < lessons[j].OrderIndex
	})
	return lessons
}

// TopicInput carries the topic fields of a bundle.
type TopicInput struct {
	Slug          string `json:"slug" validate:"required,slug"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	EstimatedTime int    `json:"estimated_time" validate:"gte=0"`
	OrderIndex    int    `json:"order_index" validate:"gte=0"`
}

// LessonInput carries one lesson with its ordered children.
type LessonInput struct {
	Slug            string             `json:"slug" validate:"required,slug"`
	Title           string             `json:"title" validate:"required"`
	Summary         string             `json:"summary" validate:"required"`
	Content         string             `json:"content" validate:"required"`
	DifficultyLevel string             `json:"difficulty_level" validate:"required,oneof=beginner intermediate advanced"`
	EstimatedTime   int                `json:"estimated_time" validate:"gte=0"`
	OrderIndex      int                `json:"order_index" validate:"gte=0"`
	KeyPoints       []string           `json:"key_points" validate:"dive,required"`
	Examples        []CodeExampleInput `json:"examples"`
	Questions       []QuizQuestionInput `json:"questions"`
}

// SortedExamples returns the lesson's code examples in ascending order_index
// order without mutating the lesson.
func (l *LessonInput) SortedExamples() []CodeExampleInput {
	examples := make([]CodeExampleInput, len(l.Examples))
	copy(examples, l.Examples)
	sort.SliceStable(examples, func(i, j int) bool {
		return examples[i].OrderIndex < examples[j].OrderIndex
	})
	return examples
}

// SortedQuestions returns the lesson's quiz questions in ascending
// order_index order without mutating the lesson.
func (l *LessonInput) SortedQuestions() []QuizQuestionInput {
	questions := make([]QuizQuestionInput, len(l.Questions))
	copy(questions, l.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].OrderIndex < questions[j].OrderIndex
	})
	return questions
}

// CodeExampleInput carries one code example of a lesson.
type CodeExampleInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Language    string `json:"language" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Explanation string `json:"explanation"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// QuizQuestionInput carries one quiz question of a lesson.
type QuizQuestionInput struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type" validate:"required,oneof=multiple_choice true_false short_answer"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required_if=QuestionType multiple_choice"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty" validate:"required,oneof=easy medium hard"`
	Points        int      `json:"points" validate:"gt=0"`
	OrderIndex    int      `json:"order_index" validate:"gte=0"`
}

// CategoryInput carries one category for the seed operation.
type CategoryInput struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required,slug"`
}
