package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/models"
)

func TestUniversityCourseSlugs(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	body := map[string]interface{}{
		"title":      "MBA in Finance & Banking",
		"university": "Open University",
		"level":      "pg",
		"mode":       "online",
		"fees":       120000,
		"published":  true,
	}

	rec := e.do(http.MethodPost, "/university-courses", body, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var course models.UniversityCourse
	decode(t, rec, &course)
	assert.Equal(t, "mba-in-finance-banking", course.Slug)

	rec = e.do(http.MethodPost, "/university-courses", body, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body["slug"] = "MBA in Finance Banking"
	rec = e.do(http.MethodPost, "/university-courses", body, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	n, err := e.c.UniversityCourses.Count(ctx, bson.M{"slug": "mba-in-finance-banking"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	rec = e.do(http.MethodPost, "/university-courses", map[string]interface{}{"title": "!!!", "university": "X"}, e.adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Fields, "slug")
}

func TestUniversityCourseCacheAndRename(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/university-courses", map[string]interface{}{
		"title": "BCom Honours", "university": "City University", "published": true,
	}, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(http.MethodGet, "/university-courses/bcom-honours", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, e.cache.Len())

	// served from cache even after the document changes underneath
	doc, err := e.c.UniversityCourses.FindOne(context.Background(), bson.M{"slug": "bcom-honours"})
	require.NoError(t, err)
	require.NoError(t, e.c.UniversityCourses.Set(context.Background(), doc.ID, bson.M{"title": "Changed"}))
	rec = e.do(http.MethodGet, "/university-courses/bcom-honours", nil, "")
	var cached models.UniversityCourse
	decode(t, rec, &cached)
	assert.Equal(t, "BCom Honours", cached.Title)

	rec = e.do(http.MethodPut, "/university-courses/bcom-honours", map[string]interface{}{
		"slug": "bcom-hons", "title": "BCom (Hons)", "university": "City University", "published": true,
	}, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, e.cache.Len())

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/university-courses/bcom-honours", nil, "").Code)
	rec = e.do(http.MethodGet, "/university-courses/bcom-hons", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var renamed models.UniversityCourse
	decode(t, rec, &renamed)
	assert.Equal(t, "BCom (Hons)", renamed.Title)
	assert.Equal(t, doc.ID, renamed.ID)
	assert.Equal(t, doc.CreatedAt.Unix(), renamed.CreatedAt.Unix())

	rec = e.do(http.MethodPost, "/university-courses", map[string]interface{}{"title": "MA Economics", "university": "City University"}, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = e.do(http.MethodPut, "/university-courses/ma-economics", map[string]interface{}{
		"slug": "bcom-hons", "title": "MA Economics", "university": "City University",
	}, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/university-courses/bcom-hons", nil, e.adminToken).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/university-courses/bcom-hons", nil, e.adminToken).Code)
}

func TestUniversityCourseListing(t *testing.T) {
	e := newTestEnv(t)
	for _, c := range []map[string]interface{}{
		{"title": "MBA", "university": "North", "level": "pg", "mode": "online", "published": true},
		{"title": "MCA", "university": "North", "level": "pg", "mode": "distance", "published": true},
		{"title": "BBA", "university": "South", "level": "ug", "mode": "online", "published": false},
	} {
		require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/university-courses", c, e.adminToken).Code)
	}

	list := func(query string) page {
		rec := e.do(http.MethodGet, "/university-courses"+query, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var p page
		var items []models.UniversityCourse
		p.Items = &items
		decode(t, rec, &p)
		p.Items = items
		return p
	}

	p := list("?level=pg")
	assert.EqualValues(t, 2, p.Total)
	p = list("?published=true&mode=online")
	assert.EqualValues(t, 1, p.Total)
	assert.Equal(t, "MBA", p.Items.([]models.UniversityCourse)[0].Title)

	p = list("?pageSize=2&pageIndex=1")
	assert.EqualValues(t, 3, p.Total)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "MBA", p.Items.([]models.UniversityCourse)[0].Title)

	rec := e.do(http.MethodGet, "/university-courses?published=maybe", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUniversityCourseUnreadableCacheEntry(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/university-courses", map[string]interface{}{
		"title": "MSc Data Science", "university": "City University",
	}, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, e.cache.Set(context.Background(), universityKey("msc-data-science"), []int{1, 2}))

	rec = e.do(http.MethodGet, "/university-courses/msc-data-science", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var course models.UniversityCourse
	decode(t, rec, &course)
	assert.Equal(t, "MSc Data Science", course.Title)

	var cached models.UniversityCourse
	found, err := e.cache.Get(context.Background(), universityKey("msc-data-science"), &cached)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, course.ID, cached.ID)
}
