package sqlxrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/note"
)

type noteRow struct {
	ID        string      `db:"id"`
	SubjectID string      `db:"subject_id"`
	UserID    string      `db:"user_id"`
	Title     string      `db:"title"`
	Content   string      `db:"content"`
	IsPublic  bool        `db:"is_public"`
	PublicID  null.String `db:"public_id"`
	CreatedAt time.Time   `db:"created_at"`
	UpdatedAt null.Time   `db:"updated_at"`
}

type noteRepository struct {
	base
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(exec core.DBExecutor) *noteRepository {
	return &noteRepository{base{exec: exec}}
}

func (repo noteRepository) boil(n note.Note) noteRow {
	row := noteRow{
		ID:        n.ID,
		SubjectID: n.SubjectID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		IsPublic:  n.IsPublic,
		PublicID:  null.NewString(n.PublicID, n.PublicID != ""),
		CreatedAt: utc(n.CreatedAt),
	}
	if n.UpdatedAt != nil {
		row.UpdatedAt = null.TimeFrom(utc(*n.UpdatedAt))
	}
	return row
}

func (repo noteRepository) unboil(row noteRow) note.Note {
	n := note.Note{
		ID:        row.ID,
		SubjectID: row.SubjectID,
		UserID:    row.UserID,
		Title:     row.Title,
		Content:   row.Content,
		IsPublic:  row.IsPublic,
		PublicID:  row.PublicID.String,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.UpdatedAt.Valid {
		updated := row.UpdatedAt.Time.UTC()
		n.UpdatedAt = &updated
	}
	return n
}

func (repo noteRepository) unboilSlice(rows []noteRow) []note.Note {
	notes := make([]note.Note, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, repo.unboil(row))
	}
	return notes
}

const noteColumns = "id, subject_id, user_id, title, content, is_public, public_id, created_at, updated_at"

func (repo noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	row := repo.boil(n)
	_, err := repo.execute(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		row.ID, row.SubjectID, row.UserID, row.Title, row.Content, row.IsPublic, row.PublicID, row.CreatedAt, row.UpdatedAt,
	)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	return repo.unboil(row), nil
}

func (repo noteRepository) QueryNotes(ctx context.Context, userID string) ([]note.Note, error) {
	var rows []noteRow
	err := repo.selectAll(ctx, &rows, "SELECT "+noteColumns+" FROM notes WHERE user_id = ? ORDER BY created_at DESC, id", userID)
	if err != nil {
		return nil, errors.Wrap(err, "selecting notes")
	}
	return repo.unboilSlice(rows), nil
}

func (repo noteRepository) GetNote(ctx context.Context, userID, id string) (note.Note, error) {
	var row noteRow
	err := repo.get(ctx, &row, "SELECT "+noteColumns+" FROM notes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return note.Note{}, trapNoRowsErr(err, "selecting note")
	}
	return repo.unboil(row), nil
}

func (repo noteRepository) GetNoteByPublicID(ctx context.Context, publicID string) (note.Note, error) {
	var row noteRow
	err := repo.get(ctx, &row, "SELECT "+noteColumns+" FROM notes WHERE public_id = ?", publicID)
	if err != nil {
		return note.Note{}, trapNoRowsErr(err, "selecting note by public ID")
	}
	return repo.unboil(row), nil
}

func (repo noteRepository) UpdateNote(ctx context.Context, n note.Note) (note.Note, error) {
	row := repo.boil(n)
	err := repo.executeOne(ctx,
		`UPDATE notes SET subject_id = ?, title = ?, content = ?, is_public = ?, public_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		row.SubjectID, row.Title, row.Content, row.IsPublic, row.PublicID, row.UpdatedAt, row.ID, row.UserID,
	)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "updating note")
	}
	return repo.unboil(row), nil
}

func (repo noteRepository) DeleteNote(ctx context.Context, userID, id string) error {
	err := repo.executeOne(ctx, "DELETE FROM notes WHERE id = ? AND user_id = ?", id, userID)
	return errors.Wrap(err, "deleting note")
}

type tagRepository struct {
	base
}

var _ note.TagRepository = (*tagRepository)(nil) // interface compliance check

func NewTagRepository(exec core.DBExecutor) *tagRepository {
	return &tagRepository{base{exec: exec}}
}

func (repo tagRepository) QueryTags(ctx context.Context) ([]note.Tag, error) {
	tags := make([]note.Tag, 0)
	err := repo.selectAll(ctx, &tags, "SELECT id, name FROM tags ORDER BY name")
	return tags, errors.Wrap(err, "selecting tags")
}

func (repo tagRepository) GetTag(ctx context.Context, id string) (note.Tag, error) {
	var tag note.Tag
	if err := repo.get(ctx, &tag, "SELECT id, name FROM tags WHERE id = ?", id); err != nil {
		return note.Tag{}, trapNoRowsErr(err, "selecting tag")
	}
	return tag, nil
}

func (repo tagRepository) GetOrCreateTag(ctx context.Context, tag note.Tag) (note.Tag, error) {
	_, err := repo.execute(ctx, "INSERT INTO tags (id, name) VALUES (?, ?) ON CONFLICT (name) DO NOTHING", tag.ID, tag.Name)
	if err != nil {
		return note.Tag{}, errors.Wrap(err, "inserting tag")
	}
	var existing note.Tag
	if err = repo.get(ctx, &existing, "SELECT id, name FROM tags WHERE name = ?", tag.Name); err != nil {
		return note.Tag{}, trapNoRowsErr(err, "selecting tag")
	}
	return existing, nil
}

func (repo tagRepository) QueryNoteTags(ctx context.Context, noteID string) ([]note.Tag, error) {
	tags := make([]note.Tag, 0)
	err := repo.selectAll(ctx, &tags,
		"SELECT t.id, t.name FROM tags t JOIN note_tags nt ON nt.tag_id = t.id WHERE nt.note_id = ? ORDER BY t.name",
		noteID,
	)
	return tags, errors.Wrap(err, "selecting note tags")
}

func (repo tagRepository) AddNoteTag(ctx context.Context, noteID, tagID string) error {
	_, err := repo.execute(ctx,
		"INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?) ON CONFLICT (note_id, tag_id) DO NOTHING",
		noteID, tagID,
	)
	return errors.Wrap(err, "inserting note tag")
}

func (repo tagRepository) RemoveNoteTag(ctx context.Context, noteID, tagID string) error {
	err := repo.executeOne(ctx, "DELETE FROM note_tags WHERE note_id = ? AND tag_id = ?", noteID, tagID)
	return errors.Wrap(err, "deleting note tag")
}
