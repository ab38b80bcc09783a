package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/trezcool/pensum/apps/api/echo"
	"github.com/trezcool/pensum/core"
	"github.com/trezcool/pensum/core/activity"
	"github.com/trezcool/pensum/core/note"
	"github.com/trezcool/pensum/core/planner"
	"github.com/trezcool/pensum/core/profile"
	"github.com/trezcool/pensum/core/quiz"
	"github.com/trezcool/pensum/core/subject"
	logsvc "github.com/trezcool/pensum/services/logger"
	dummydb "github.com/trezcool/pensum/storage/database/dummy"
	"github.com/trezcool/pensum/storage/database/sqlxrepos"
	testutil "github.com/trezcool/pensum/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type app struct {
	*echoapi.Server
	conf     *core.Config
	subjRepo subject.Repository
	noteRepo note.Repository
	profiles profile.Repository
}

func setup(t *testing.T) app {
	t.Helper()
	conf := testutil.NewConfig()

	// set up DB & repos
	db := testutil.PrepareDB(t, conf)
	subjRepo := sqlxrepos.NewSubjectRepository(db)
	noteRepo := sqlxrepos.NewNoteRepository(db)
	profileRepo := sqlxrepos.NewProfileRepository(db)

	// set up services
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	translator, _ := ut.New(en.New()).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)

	activitySvc := activity.NewService(sqlxrepos.NewActivityRepository(db))
	subjectSvc := subject.NewService(subjRepo, conf)
	noteSvc := note.NewService(noteRepo, sqlxrepos.NewTagRepository(db), subjectSvc, activitySvc, conf, logger)
	quizSvc := quiz.NewService(
		sqlxrepos.NewFlashcardRepository(db),
		dummydb.NewSessionStore(dummydb.Open()),
		subjectSvc,
		noteSvc,
		activitySvc,
		conf,
		logger,
	)

	// set up server
	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
		ProfileSvc:     profile.NewService(profileRepo, conf),
		SubjectSvc:     subjectSvc,
		NoteSvc:        noteSvc,
		PlannerSvc:     planner.NewService(sqlxrepos.NewPlannerRepository(db), subjectSvc),
		QuizSvc:        quizSvc,
		ActivitySvc:    activitySvc,
	})
	t.Cleanup(func() { _ = srv.Close() })

	return app{
		Server:   srv,
		conf:     conf,
		subjRepo: subjRepo,
		noteRepo: noteRepo,
		profiles: profileRepo,
	}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do serves a request and returns the recorded response.
func (a app) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	a.ServeHTTP(rec, req)
	return rec
}

func getToken(t *testing.T, conf *core.Config, id, email, name string) string {
	t.Helper()
	token, err := echoapi.GenerateToken(conf, echoapi.NewClaims(conf, id, email, name))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("unmarshall(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if _, ok := j1.([]interface{}); !ok {
		return false, nil
	}
	if _, ok := j2.([]interface{}); !ok {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
