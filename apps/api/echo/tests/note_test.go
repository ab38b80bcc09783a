package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/note"
	testutil "github.com/trezcool/pensum/tests"
)

func Test_noteApi(t *testing.T) {
	a := setup(t)
	token := getToken(t, a.conf, "u1", "ada@example.com", "Ada")
	otherToken := getToken(t, a.conf, "u2", "bob@example.com", "Bob")

	bio := testutil.CreateSubject(t, a.subjRepo, "u1", "Biology")
	hist := testutil.CreateSubject(t, a.subjRepo, "u1", "History")
	foreign := testutil.CreateSubject(t, a.subjRepo, "u2", "Chemistry")

	now := time.Now()
	cells := testutil.CreateNote(t, a.noteRepo, bio, "Cells", "The mitochondria is the powerhouse of the cell.", now.Add(-2*time.Hour))
	rome := testutil.CreateNote(t, a.noteRepo, hist, "Rome", "Rome was founded long ago.", now.Add(-time.Hour))

	tests := []httpTest{
		{
			name:     "create: missing fields",
			method:   http.MethodPost,
			path:     "/v1/notes",
			body:     []byte(`{"subject_id": "` + bio.ID + `", "title": "", "content": " "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"title": "this field is required", "content": "this field may not be blank"}`),
		},
		{
			name:     "create: other user's subject",
			method:   http.MethodPost,
			path:     "/v1/notes",
			body:     []byte(`{"subject_id": "` + foreign.ID + `", "title": "Atoms", "content": "Atoms are small."}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"subject_id": "subject not found"}`),
		},
		{
			name:     "retrieve other user's note",
			method:   http.MethodGet,
			path:     "/v1/notes/" + cells.ID,
			token:    otherToken,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "update: blank content",
			method:   http.MethodPatch,
			path:     "/v1/notes/" + cells.ID,
			body:     []byte(`{"content": "  "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"content": "this field may not be blank"}`),
		},
		{
			name:     "list: other user sees nothing",
			method:   http.MethodGet,
			path:     "/v1/notes",
			token:    otherToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("list & search", func(t *testing.T) {
		var notes []note.Note

		rec := a.do(http.MethodGet, "/v1/notes", token)
		require.Equal(t, http.StatusOK, rec.Code)
		unmarshall(t, rec, &notes)
		require.Len(t, notes, 2)
		assert.Equal(t, rome.ID, notes[0].ID) // newest first

		rec = a.do(http.MethodGet, "/v1/notes?subject_id="+bio.ID, token)
		require.Equal(t, http.StatusOK, rec.Code)
		notes = nil
		unmarshall(t, rec, &notes)
		require.Len(t, notes, 1)
		assert.Equal(t, cells.ID, notes[0].ID)

		rec = a.do(http.MethodGet, "/v1/notes?search=Mitochondria", token)
		require.Equal(t, http.StatusOK, rec.Code)
		notes = nil
		unmarshall(t, rec, &notes)
		require.Len(t, notes, 1)
		assert.Equal(t, cells.ID, notes[0].ID)
	})

	t.Run("create, update & delete", func(t *testing.T) {
		body := marshallObj(t, note.NewNote{SubjectID: bio.ID, Title: " Atoms ", Content: "Atoms are small."})
		rec := a.do(http.MethodPost, "/v1/notes", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var created note.Note
		unmarshall(t, rec, &created)
		assert.Equal(t, "Atoms", created.Title)
		assert.False(t, created.IsPublic)
		assert.Nil(t, created.UpdatedAt)

		// writing notes is tracked
		rec = a.do(http.MethodGet, "/v1/activity", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var days []activity.Daily
		unmarshall(t, rec, &days)
		require.Len(t, days, 1)
		assert.True(t, days[0].WroteNotes)

		rec = a.do(http.MethodPatch, "/v1/notes/"+created.ID, token, []byte(`{"subject_id": "`+hist.ID+`", "title": "Atomic theory"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated note.Note
		unmarshall(t, rec, &updated)
		assert.Equal(t, "Atomic theory", updated.Title)
		assert.Equal(t, hist.ID, updated.SubjectID)
		assert.Equal(t, "Atoms are small.", updated.Content)
		assert.NotNil(t, updated.UpdatedAt)

		rec = a.do(http.MethodDelete, "/v1/notes/"+created.ID, token)
		require.Equal(t, http.StatusNoContent, rec.Code)
		rec = a.do(http.MethodGet, "/v1/notes/"+created.ID, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sharing", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/v1/notes/"+cells.ID+"/share", otherToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(http.MethodPost, "/v1/notes/"+cells.ID+"/share", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var shared note.Note
		unmarshall(t, rec, &shared)
		assert.True(t, shared.IsPublic)
		require.Len(t, shared.PublicID, 10)

		rec = a.do(http.MethodGet, "/public/notes/"+shared.PublicID, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var public note.PublicNote
		unmarshall(t, rec, &public)
		assert.Equal(t, "Cells", public.Title)
		assert.Equal(t, cells.Content, public.Content)

		rec = a.do(http.MethodPost, "/v1/notes/"+cells.ID+"/share", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var unshared note.Note
		unmarshall(t, rec, &unshared)
		assert.False(t, unshared.IsPublic)
		assert.Equal(t, shared.PublicID, unshared.PublicID) // kept

		rec = a.do(http.MethodGet, "/public/notes/"+shared.PublicID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = a.do(http.MethodGet, "/public/notes/unknown", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("tags", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/v1/tags", token, []byte(`{"name": " Exam "}`))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var tag note.Tag
		unmarshall(t, rec, &tag)
		assert.Equal(t, "exam", tag.Name)

		rec = a.do(http.MethodPost, "/v1/tags", otherToken, []byte(`{"name": "exam"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
		var dup note.Tag
		unmarshall(t, rec, &dup)
		assert.Equal(t, tag.ID, dup.ID)

		rec = a.do(http.MethodPost, "/v1/tags", token, []byte(`{"name": ""}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = a.do(http.MethodPut, "/v1/notes/"+cells.ID+"/tags/"+tag.ID, otherToken)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = a.do(http.MethodPut, "/v1/notes/"+cells.ID+"/tags/unknown", token)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(http.MethodPut, "/v1/notes/"+cells.ID+"/tags/"+tag.ID, token)
		require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
		rec = a.do(http.MethodPut, "/v1/notes/"+cells.ID+"/tags/"+tag.ID, token) // idempotent
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = a.do(http.MethodGet, "/v1/notes/"+cells.ID+"/tags", token)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []note.Tag{tag})}, rec)

		rec = a.do(http.MethodGet, "/v1/tags", otherToken)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, []note.Tag{tag})}, rec)

		rec = a.do(http.MethodDelete, "/v1/notes/"+cells.ID+"/tags/"+tag.ID, token)
		require.Equal(t, http.StatusNoContent, rec.Code)
		rec = a.do(http.MethodDelete, "/v1/notes/"+cells.ID+"/tags/"+tag.ID, token)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = a.do(http.MethodGet, "/v1/notes/"+cells.ID+"/tags", token)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})
}
