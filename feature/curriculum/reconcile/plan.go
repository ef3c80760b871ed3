package reconcile

import (
	"errors"
	"fmt"

	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/schema"

	"gorm.io/gorm"
)

// PlanActionType names a mutation the reconciler would perform.
type PlanActionType string

const (
	// PlanCreateTopic inserts a new topic row.
	PlanCreateTopic PlanActionType = "create_topic"
	// PlanUpdateTopic overwrites an existing topic's non-key columns.
	PlanUpdateTopic PlanActionType = "update_topic"
	// PlanCreateLesson inserts a new lesson row.
	PlanCreateLesson PlanActionType = "create_lesson"
	// PlanUpdateLesson overwrites an existing lesson's non-key columns.
	PlanUpdateLesson PlanActionType = "update_lesson"
	// PlanReplaceExamples deletes a lesson's code examples and reinserts
	// the bundle's set.
	PlanReplaceExamples PlanActionType = "replace_examples"
	// PlanReplaceQuestions deletes a lesson's quiz questions and reinserts
	// the bundle's set.
	PlanReplaceQuestions PlanActionType = "replace_questions"
)

// PlanAction is one planned mutation.
type PlanAction struct {
	// Type specifies the action to perform.
	Type PlanActionType `json:"type"`

	// Key is the natural key path of the affected row, e.g.
	// "frontend/react-hooks/use-state".
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	// TopicCreates counts topics that would be inserted.
	TopicCreates int `json:"topic_creates"`
	// TopicUpdates counts topics that would be overwritten.
	TopicUpdates int `json:"topic_updates"`
	// LessonCreates counts lessons that would be inserted.
	LessonCreates int `json:"lesson_creates"`
	// LessonUpdates counts lessons that would be overwritten.
	LessonUpdates int `json:"lesson_updates"`
	// ChildDeletes counts existing child rows that would be removed.
	ChildDeletes int `json:"child_deletes"`
	// ChildInserts counts child rows that would be inserted.
	ChildInserts int `json:"child_inserts"`
}

// Plan describes what a load would change without changing anything.
type Plan struct {
	// BundleID identifies the planned bundle.
	BundleID string `json:"bundle_id"`

	// Actions contains the planned mutations in execution order.
	Actions []PlanAction `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// BuildPlan computes the mutations a load of this bundle would perform,
// using only reads. The plan is advisory: a concurrent load can change the
// store between planning and applying, so Apply never trusts a plan.
func BuildPlan(db *gorm.DB, bundle *models.Bundle) (*Plan, error) {
	plan := &Plan{BundleID: bundle.BundleID()}

	var category models.Category
	err := db.Where(naturalKeyClause(schema.Categories()), bundle.CategorySlug).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Errf(KindMissingParent, "category %q is not seeded", bundle.CategorySlug)
	}
	if err != nil {
		return nil, Classify(err)
	}

	topicKey := bundle.BundleID()
	var topic models.Topic
	err = db.Where(naturalKeyClause(schema.Topics()), category.ID, bundle.Topic.Slug).Take(&topic).Error
	topicExists := err == nil
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		plan.add(PlanCreateTopic, topicKey, "no topic with this slug in the category")
		plan.Summary.TopicCreates++
	case err != nil:
		return nil, Classify(err)
	default:
		plan.add(PlanUpdateTopic, topicKey, "topic exists, non-key columns will be overwritten")
		plan.Summary.TopicUpdates++
	}

	for _, lesson := range bundle.SortedLessons() {
		lessonKey := topicKey + "/" + lesson.Slug

		lessonExists := false
		var row models.Lesson
		if topicExists {
			err := db.Where(naturalKeyClause(schema.Lessons()), topic.ID, lesson.Slug).Take(&row).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
			case err != nil:
				return nil, Classify(err)
			default:
				lessonExists = true
			}
		}

		if lessonExists {
			plan.add(PlanUpdateLesson, lessonKey, "lesson exists, non-key columns will be overwritten")
			plan.Summary.LessonUpdates++
		} else {
			plan.add(PlanCreateLesson, lessonKey, "no lesson with this slug in the topic")
			plan.Summary.LessonCreates++
		}

		exampleDeletes, questionDeletes := int64(0), int64(0)
		if lessonExists {
			t := schema.CodeExamples()
			if err := db.Model(&models.CodeExample{}).Where(t.ParentKey+" = ?", row.ID).Count(&exampleDeletes).Error; err != nil {
				return nil, Classify(err)
			}
			t = schema.QuizQuestions()
			if err := db.Model(&models.QuizQuestion{}).Where(t.ParentKey+" = ?", row.ID).Count(&questionDeletes).Error; err != nil {
				return nil, Classify(err)
			}
		}

		plan.add(PlanReplaceExamples, lessonKey,
			fmt.Sprintf("delete %d existing, insert %d", exampleDeletes, len(lesson.Examples)))
		plan.add(PlanReplaceQuestions, lessonKey,
			fmt.Sprintf("delete %d existing, insert %d", questionDeletes, len(lesson.Questions)))

		plan.Summary.ChildDeletes += int(exampleDeletes + questionDeletes)
		plan.Summary.ChildInserts += len(lesson.Examples) + len(lesson.Questions)
	}

	return plan, nil
}

func (p *Plan) add(actionType PlanActionType, key, reason string) {
	p.Actions = append(p.Actions, PlanAction{Type: actionType, Key: key, Reason: reason})
}
