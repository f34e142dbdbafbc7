package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"CourseBrowser/internal/catalog"
)

func newCatalogTS(t *testing.T) *httptest.Server {
	t.Helper()

	ctrl := catalog.NewController(catalog.NewCache(catalog.NewMemStore(), ""), catalog.WithRand(catalog.NewRand(1)))
	require.NoError(t, ctrl.Init(context.Background()))

	h := catalog.NewHandler(&catalog.Server{Catalog: ctrl, Log: zap.NewNop()}, catalog.HTTPDeps{
		Log:     zap.NewNop(),
		Service: "catalog",
	})
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestCatalogctl_Courses(t *testing.T) {
	ts := newCatalogTS(t)

	var out bytes.Buffer
	err := newApp(&out).Run([]string{"catalogctl", "--url", ts.URL, "courses", "--grade", "10", "--subject", "Physics"})
	require.NoError(t, err)

	var list catalog.CourseList
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	assert.Equal(t, catalog.CoursesPerGrade, list.Total)
	for _, c := range list.Items {
		assert.Equal(t, 10, c.Grade)
		assert.Equal(t, catalog.SubjectPhysics, c.Subject)
	}
}

func TestCatalogctl_Course(t *testing.T) {
	ts := newCatalogTS(t)

	var out bytes.Buffer
	require.NoError(t, newApp(&out).Run([]string{"catalogctl", "--url", ts.URL, "course", "CHE-9-4"}))

	var c catalog.Course
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Equal(t, "CHE-9-4", c.ID)

	out.Reset()
	err := newApp(&out).Run([]string{"catalogctl", "--url", ts.URL, "course", "CHE-99-4"})
	assert.ErrorIs(t, err, catalog.ErrCourseNotFound)
}
