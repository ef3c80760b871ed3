package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"curriculum-loader/feature/curriculum/models"
	"curriculum-loader/feature/curriculum/schema"

	"gorm.io/gorm"
)

// Resolver translates slug-based natural keys into surrogate IDs inside one
// transaction. It keeps an in-memory slug→ID map to avoid repeated lookups;
// the map lives and dies with the transaction, so nothing is cached across
// loads.
//
// Uniqueness under concurrent loads is guaranteed by the database unique
// constraints on the natural keys, not by the lookup: a duplicate-key error
// on create surfaces as a retryable conflict.
type Resolver struct {
	tx         *gorm.DB
	categories map[string]uint
	topics     map[string]uint
	lessons    map[string]uint
}

// NewResolver creates a resolver bound to the given transaction.
func NewResolver(tx *gorm.DB) *Resolver {
	return &Resolver{
		tx:         tx,
		categories: make(map[string]uint),
		topics:     make(map[string]uint),
		lessons:    make(map[string]uint),
	}
}

// ResolveCategory looks up a category by slug. Categories are pre-seeded and
// never created by the loader; an unknown slug is a missing-parent failure.
func (r *Resolver) ResolveCategory(slug string) (uint, error) {
	if id, ok := r.categories[slug]; ok {
		return id, nil
	}

	t := schema.Categories()
	var row models.Category
	err := r.tx.Where(naturalKeyClause(t), slug).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, Errf(KindMissingParent, "category %q is not seeded", slug)
	}
	if err != nil {
		return 0, Classify(err)
	}

	r.categories[slug] = row.ID
	return row.ID, nil
}

// ResolveOrCreateTopic upserts a topic by (category_id, slug) and returns its
// surrogate ID. created reports whether a new row was inserted; otherwise the
// existing row's non-key columns were overwritten with the input's values.
func (r *Resolver) ResolveOrCreateTopic(categoryID uint, in models.TopicInput) (id uint, created bool, err error) {
	cacheKey := fmt.Sprintf("%d/%s", categoryID, in.Slug)
	if id, ok := r.topics[cacheKey]; ok {
		return id, false, nil
	}

	t := schema.Topics()
	var row models.Topic
	err = r.tx.Where(naturalKeyClause(t), categoryID, in.Slug).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Topic{
			CategoryID:    categoryID,
			Name:          in.Name,
			Slug:          in.Slug,
			Description:   in.Description,
			EstimatedTime: in.EstimatedTime,
			OrderIndex:    in.OrderIndex,
		}
		if err := r.tx.Create(&row).Error; err != nil {
			return 0, false, Classify(err)
		}
		created = true
	case err != nil:
		return 0, false, Classify(err)
	default:
		vals := filterColumns(topicColumnValues(categoryID, in), t.UpdateColumns)
		if err := r.tx.Model(&models.Topic{}).Where("id = ?", row.ID).Updates(vals).Error; err != nil {
			return 0, false, Classify(err)
		}
	}

	r.topics[cacheKey] = row.ID
	return row.ID, created, nil
}

// ResolveOrCreateLesson upserts a lesson by (topic_id, slug) and returns its
// surrogate ID. Updates fully overwrite the non-key columns, including the
// key_points sequence as a whole.
func (r *Resolver) ResolveOrCreateLesson(topicID uint, in models.LessonInput) (id uint, created bool, err error) {
	cacheKey := fmt.Sprintf("%d/%s", topicID, in.Slug)
	if id, ok := r.lessons[cacheKey]; ok {
		return id, false, nil
	}

	keyPoints, err := models.JSONSequence(in.KeyPoints)
	if err != nil {
		return 0, false, Errf(KindFatal, "cannot serialize key_points for lesson %q: %w", in.Slug, err)
	}

	t := schema.Lessons()
	var row models.Lesson
	err = r.tx.Where(naturalKeyClause(t), topicID, in.Slug).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.Lesson{
			TopicID:         topicID,
			Title:           in.Title,
			Slug:            in.Slug,
			Content:         in.Content,
			Summary:         in.Summary,
			DifficultyLevel: in.DifficultyLevel,
			EstimatedTime:   in.EstimatedTime,
			OrderIndex:      in.OrderIndex,
			KeyPoints:       keyPoints,
		}
		if err := r.tx.Create(&row).Error; err != nil {
			return 0, false, Classify(err)
		}
		created = true
	case err != nil:
		return 0, false, Classify(err)
	default:
		vals := filterColumns(lessonColumnValues(topicID, in, keyPoints), t.UpdateColumns)
		if err := r.tx.Model(&models.Lesson{}).Where("id = ?", row.ID).Updates(vals).Error; err != nil {
			return 0, false, Classify(err)
		}
	}

	r.lessons[cacheKey] = row.ID
	return row.ID, created, nil
}

// naturalKeyClause builds the WHERE clause addressing a row by its declared
// natural key columns, in declaration order.
func naturalKeyClause(t schema.Table) string {
	conds := make([]string, len(t.NaturalKey))
	for i, col := range t.NaturalKey {
		conds[i] = col + " = ?"
	}
	return strings.Join(conds, " AND ")
}

func topicColumnValues(categoryID uint, in models.TopicInput) map[string]any {
	return map[string]any{
		"category_id":    categoryID,
		"name":           in.Name,
		"slug":           in.Slug,
		"description":    in.Description,
		"estimated_time": in.EstimatedTime,
		"order_index":    in.OrderIndex,
	}
}

func lessonColumnValues(topicID uint, in models.LessonInput, keyPoints any) map[string]any {
	return map[string]any{
		"topic_id":         topicID,
		"title":            in.Title,
		"slug":             in.Slug,
		"content":          in.Content,
		"summary":          in.Summary,
		"difficulty_level": in.DifficultyLevel,
		"estimated_time":   in.EstimatedTime,
		"order_index":      in.OrderIndex,
		"key_points":       keyPoints,
	}
}

// filterColumns keeps only the values for the declared update column set, so
// key columns never end up in an UPDATE statement.
func filterColumns(vals map[string]any, cols []string) map[string]any {
	out := make(map[string]any, len(cols))
	for _, col := range cols {
		if v, ok := vals[col]; ok {
			out[col] = v
		}
	}
	return out
}
