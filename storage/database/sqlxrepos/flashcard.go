package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/quiz"
)

type flashcardRepository struct {
	base
}

var _ quiz.FlashcardRepository = (*flashcardRepository)(nil) // interface compliance check

func NewFlashcardRepository(exec core.DBExecutor) *flashcardRepository {
	return &flashcardRepository{base{exec: exec}}
}

const flashcardColumns = "id, subject_id, front, back, created_at"

func (repo flashcardRepository) CreateFlashcard(ctx context.Context, fc quiz.Flashcard) (quiz.Flashcard, error) {
	fc.CreatedAt = utc(fc.CreatedAt)
	_, err := repo.execute(ctx,
		"INSERT INTO flashcards ("+flashcardColumns+") VALUES (?, ?, ?, ?, ?)",
		fc.ID, fc.SubjectID, fc.Front, fc.Back, fc.CreatedAt,
	)
	if err != nil {
		return quiz.Flashcard{}, errors.Wrap(err, "inserting flashcard")
	}
	return fc, nil
}

func (repo flashcardRepository) QueryFlashcards(ctx context.Context, subjectID string) ([]quiz.Flashcard, error) {
	cards := make([]quiz.Flashcard, 0)
	err := repo.selectAll(ctx, &cards,
		"SELECT "+flashcardColumns+" FROM flashcards WHERE subject_id = ? ORDER BY created_at, id",
		subjectID,
	)
	return cards, errors.Wrap(err, "selecting flashcards")
}

func (repo flashcardRepository) DeleteFlashcard(ctx context.Context, subjectID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM flashcards WHERE id = ? AND subject_id = ?", id, subjectID)
	return errors.Wrap(err, "deleting flashcard")
}
