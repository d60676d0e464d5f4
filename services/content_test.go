package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContentService(t *testing.T, db DatabaseProvider) *ContentService {
	t.Helper()
	svc := NewContentService()
	svc.wire(db)
	return svc
}

func TestContentTree(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	addLesson(t, db, "l1")
	svc := newContentService(t, db)

	languages, err := svc.GetLanguages()
	require.NoError(t, err)
	require.Len(t, languages, 1)
	assert.Equal(t, "lang-l1", languages[0].ID)

	modules, err := svc.GetModules("lang-l1")
	require.NoError(t, err)
	require.Len(t, modules, 1)
	assert.Equal(t, 1, modules[0].LessonsCount)

	lessons, err := svc.GetLessons("mod-l1", user.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.False(t, lessons[0].Completed)

	_, err = newProgressService(t, db, nil).CompleteLesson(user.ID, "l1", 3)
	require.NoError(t, err)

	lessons, err = svc.GetLessons("mod-l1", user.ID)
	require.NoError(t, err)
	assert.True(t, lessons[0].Completed)
}

func TestGetLessonDetail(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 0)
	addLesson(t, db, "l1")
	svc := newContentService(t, db)

	lesson, err := svc.GetLesson("l1", user.ID)
	require.NoError(t, err)
	assert.Equal(t, "mod-l1", lesson.ModuleID)
	require.Len(t, lesson.Exercises, 2)

	choice := lesson.Exercises[0]
	assert.Equal(t, "l1-ex1", choice.ID)
	assert.True(t, choice.Options.IsMultipleChoice())
	assert.Equal(t, map[string]string{"a": "one", "b": "two"}, choice.Options.Map())
	assert.Equal(t, "b", choice.Answer)

	free := lesson.Exercises[1]
	assert.False(t, free.Options.IsMultipleChoice())
	assert.Empty(t, free.Options.Map())
}

func TestContentNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(t, db)

	_, err := svc.GetModules("nope")
	appErr := requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Language not found", appErr.Message)

	_, err = svc.GetLessons("nope", "")
	appErr = requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Module not found", appErr.Message)

	_, err = svc.GetLesson("nope", "")
	appErr = requireStatus(t, err, http.StatusNotFound)
	assert.Equal(t, "Lesson not found", appErr.Message)
}
