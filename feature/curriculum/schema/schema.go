// Package schema declares the relational shape the loader writes against.
//
// It is the only place that knows table and column names: the reconciler
// builds its natural-key lookups, update sets, child deletions, and ordering
// clauses from these descriptors, and the schema inspector verifies the live
// database against them before a load runs.
package schema

// Table describes one entity table.
type Table struct {
	// Name is the table name.
	Name string

	// Columns lists every column the loader expects to exist.
	Columns []string

	// NaturalKey is the column set that addresses a row across reloads.
	// Empty for child tables whose rows are fully replaced per load.
	NaturalKey []string

	// ParentKey is the foreign-key column referencing the parent table,
	// or empty for the root table.
	ParentKey string

	// OrderColumn is the column establishing display order within the
	// parent, or empty when the table is unordered.
	OrderColumn string

	// SequenceColumns lists columns holding ordered sequences serialized
	// as JSON arrays. Their stored form must round-trip losslessly.
	SequenceColumns []string

	// UpdateColumns are the non-key columns overwritten on upsert.
	// Key columns and surrogate IDs are never updated in place.
	UpdateColumns []string
}

// Categories describes the 'categories' table.
func Categories() Table {
	return Table{
		Name:          "categories",
		Columns:       []string{"id", "name", "slug", "created_at", "updated_at"},
		NaturalKey:    []string{"slug"},
		UpdateColumns: []string{"name"},
	}
}

// Topics describes the 'topics' table.
func Topics() Table {
	return Table{
		Name: "topics",
		Columns: []string{
			"id", "category_id", "name", "slug", "description",
			"estimated_time", "order_index", "created_at", "updated_at",
		},
		NaturalKey:    []string{"category_id", "slug"},
		ParentKey:     "category_id",
		OrderColumn:   "order_index",
		UpdateColumns: []string{"name", "description", "estimated_time", "order_index"},
	}
}

// Lessons describes the 'lessons' table.
func Lessons() Table {
	return Table{
		Name: "lessons",
		Columns: []string{
			"id", "topic_id", "title", "slug", "content", "summary",
			"difficulty_level", "estimated_time", "order_index",
			"key_points", "created_at", "updated_at",
		},
		NaturalKey:      []string{"topic_id", "slug"},
		ParentKey:       "topic_id",
		OrderColumn:     "order_index",
		SequenceColumns: []string{"key_points"},
		UpdateColumns: []string{
			"title", "content", "summary", "difficulty_level",
			"estimated_time", "order_index", "key_points",
		},
	}
}

// CodeExamples describes the 'code_examples' table. Rows carry no natural
// key: a lesson's examples are deleted and reinserted as a set.
func CodeExamples() Table {
	return Table{
		Name: "code_examples",
		Columns: []string{
			"id", "lesson_id", "title", "description", "language",
			"code", "explanation", "order_index", "created_at",
		},
		ParentKey:   "lesson_id",
		OrderColumn: "order_index",
	}
}

// QuizQuestions describes the 'quiz_questions' table. Rows carry no natural
// key: a lesson's questions are deleted and reinserted as a set.
func QuizQuestions() Table {
	return Table{
		Name: "quiz_questions",
		Columns: []string{
			"id", "lesson_id", "question_text", "question_type", "options",
			"correct_answer", "explanation", "difficulty", "points",
			"order_index", "created_at",
		},
		ParentKey:       "lesson_id",
		OrderColumn:     "order_index",
		SequenceColumns: []string{"options"},
	}
}

// Tables returns all entity tables in parent-before-child order.
func Tables() []Table {
	return []Table{
		Categories(),
		Topics(),
		Lessons(),
		CodeExamples(),
		QuizQuestions(),
	}
}

// ExpectedColumns returns the table→columns map the schema inspector
// verifies before a load runs.
func ExpectedColumns() map[string][]string {
	want := make(map[string][]string)
	for _, t := range Tables() {
		want[t.Name] = t.Columns
	}
	return want
}
