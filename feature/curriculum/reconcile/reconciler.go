package reconcile

import (
	"time"

	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/schema"

	"gorm.io/gorm"
)

// Reconciler writes a validated bundle into the store with at most one row
// per natural key, regardless of how many times the bundle is loaded.
//
// Write order is fixed: category resolved first, then the topic, then each
// lesson in ascending order_index, and within each lesson a full replace of
// its code examples and quiz questions. The caller owns the transaction; any
// returned error must abort the whole unit of work.
type Reconciler struct {
	tx       *gorm.DB
	resolver *Resolver
}

// NewReconciler creates a reconciler bound to the given transaction.
func NewReconciler(tx *gorm.DB) *Reconciler {
	return &Reconciler{
		tx:       tx,
		resolver: NewResolver(tx),
	}
}

// Apply reconciles one bundle and returns the load summary.
func (rc *Reconciler) Apply(bundle *models.Bundle) (*Summary, error) {
	start := time.Now()
	summary := &Summary{BundleID: bundle.BundleID()}

	categoryID, err := rc.resolver.ResolveCategory(bundle.CategorySlug)
	if err != nil {
		return nil, err
	}

	topicID, created, err := rc.resolver.ResolveOrCreateTopic(categoryID, bundle.Topic)
	if err != nil {
		return nil, err
	}
	if created {
		summary.Inserted.Topics++
	} else {
		summary.Updated.Topics++
	}

	for _, lesson := range bundle.SortedLessons() {
		lessonID, created, err := rc.resolver.ResolveOrCreateLesson(topicID, lesson)
		if err != nil {
			return nil, err
		}
		if created {
			summary.Inserted.Lessons++
		} else {
			summary.Updated.Lessons++
		}

		if err := rc.replaceExamples(lessonID, lesson, summary); err != nil {
			return nil, err
		}
		if err := rc.replaceQuestions(lessonID, lesson, summary); err != nil {
			return nil, err
		}
	}

	summary.DurationMS = time.Since(start).Milliseconds()
	return summary, nil
}

// replaceExamples applies the full-replace policy to a lesson's code
// examples: delete every existing child, then insert the bundle's set in
// ascending order_index.
func (rc *Reconciler) replaceExamples(lessonID uint, lesson models.LessonInput, summary *Summary) error {
	t := schema.CodeExamples()

	res := rc.tx.Where(t.ParentKey+" = ?", lessonID).Delete(&models.CodeExample{})
	if res.Error != nil {
		return Classify(res.Error)
	}
	summary.DeletedChildren.Examples += int(res.RowsAffected)

	for _, in := range lesson.SortedExamples() {
		row := models.CodeExample{
			LessonID:    lessonID,
			Title:       in.Title,
			Description: in.Description,
			Language:    in.Language,
			Code:        in.Code,
			Explanation: in.Explanation,
			OrderIndex:  in.OrderIndex,
		}
		if err := rc.tx.Create(&row).Error; err != nil {
			return Classify(err)
		}
		summary.Inserted.Examples++
	}
	return nil
}

// replaceQuestions applies the full-replace policy to a lesson's quiz
// questions.
func (rc *Reconciler) replaceQuestions(lessonID uint, lesson models.LessonInput, summary *Summary) error {
	t := schema.QuizQuestions()

	res := rc.tx.Where(t.ParentKey+" = ?", lessonID).Delete(&models.QuizQuestion{})
	if res.Error != nil {
		return Classify(res.Error)
	}
	summary.DeletedChildren.Questions += int(res.RowsAffected)

	for _, in := range lesson.SortedQuestions() {
		options, err := models.JSONSequence(in.Options)
		if err != nil {
			return Errf(KindFatal, "cannot serialize options for question %d: %w", in.OrderIndex, err)
		}
		row := models.QuizQuestion{
			LessonID:      lessonID,
			QuestionText:  in.QuestionText,
			QuestionType:  in.QuestionType,
			Options:       options,
			CorrectAnswer: in.CorrectAnswer,
			Explanation:   in.Explanation,
			Difficulty:    in.Difficulty,
			Points:        in.Points,
			OrderIndex:    in.OrderIndex,
		}
		if err := rc.tx.Create(&row).Error; err != nil {
			return Classify(err)
		}
		summary.Inserted.Questions++
	}
	return nil
}
