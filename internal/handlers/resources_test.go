package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
)

func TestLeadsNotifyAndAdminUpdate(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/leads", map[string]string{
		"name": "Priya", "phone": "9123456780", "course": "CA Foundation", "source": "website",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lead models.Lead
	decode(t, rec, &lead)
	assert.Equal(t, models.LeadNew, lead.Status)

	sent := e.mailer.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"admissions@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].Subject, "Priya")

	rec = e.do(http.MethodPost, "/leads", map[string]string{"name": "No phone"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Fields, "phone")
	assert.Len(t, e.mailer.Messages(), 1)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/leads", nil, "").Code)

	rec = e.do(http.MethodPut, "/leads/"+lead.ID.Hex(), map[string]string{
		"name": "Priya", "phone": "9123456780", "status": models.LeadContacted, "notes": "call back monday",
	}, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Lead
	decode(t, rec, &updated)
	assert.Equal(t, lead.ID, updated.ID)
	assert.Equal(t, models.LeadContacted, updated.Status)
	assert.Equal(t, lead.CreatedAt.Unix(), updated.CreatedAt.Unix())

	rec = e.do(http.MethodPut, "/leads/"+lead.ID.Hex(), map[string]string{
		"name": "Priya", "phone": "9123456780", "status": "lost",
	}, e.adminToken)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/leads?status=contacted", nil, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var p page
	decode(t, rec, &p)
	assert.EqualValues(t, 1, p.Total)

	assert.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/leads/"+lead.ID.Hex(), nil, e.adminToken).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/leads/"+lead.ID.Hex(), nil, e.adminToken).Code)
}

func TestContactsNotify(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(http.MethodPost, "/contacts", map[string]string{
		"name": "Dev", "email": "dev@example.com", "message": "Do you offer weekend batches?",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var contact models.Contact
	decode(t, rec, &contact)
	require.Len(t, e.mailer.Messages(), 1)
	assert.Contains(t, e.mailer.Messages()[0].Text, "weekend batches")

	rec = e.do(http.MethodPut, "/contacts/"+contact.ID.Hex(), map[string]bool{"resolved": true}, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &contact)
	assert.True(t, contact.Resolved)
	assert.Equal(t, "Dev", contact.Name)

	rec = e.do(http.MethodGet, "/contacts?resolved=false", nil, e.adminToken)
	var p page
	decode(t, rec, &p)
	assert.Zero(t, p.Total)
}

func TestCentersAndNewsletterSections(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(http.MethodPost, "/centers", map[string]interface{}{"name": "Andheri", "city": "Mumbai"}, e.userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(http.MethodPost, "/centers", map[string]interface{}{
		"name": "Andheri", "city": "Mumbai", "pincode": "400053", "active": true,
	}, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPost, "/centers", map[string]interface{}{"name": "Bad", "city": "Pune", "pincode": "0123"}, e.adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Fields, "pincode")

	rec = e.do(http.MethodGet, "/centers?city=Mumbai&active=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p page
	decode(t, rec, &p)
	assert.EqualValues(t, 1, p.Total)

	for _, s := range []map[string]interface{}{
		{"title": "Results", "order": 2, "active": true},
		{"title": "Welcome", "order": 0, "active": true},
		{"title": "Events", "order": 1, "active": true},
	} {
		require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/newsletter-sections", s, e.adminToken).Code)
	}
	rec = e.do(http.MethodGet, "/newsletter-sections", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sections []models.NewsletterSection
	p.Items = &sections
	decode(t, rec, &p)
	require.Len(t, sections, 3)
	assert.Equal(t, []string{"Welcome", "Events", "Results"}, []string{sections[0].Title, sections[1].Title, sections[2].Title})
}

func TestNewsletterSectionsOrderedAcrossPages(t *testing.T) {
	e := newTestEnv(t)
	for order := 11; order >= 0; order-- {
		body := map[string]interface{}{"title": fmt.Sprintf("Section %d", order), "order": order, "active": true}
		require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/newsletter-sections", body, e.adminToken).Code)
	}

	orders := func(query string) []int {
		rec := e.do(http.MethodGet, "/newsletter-sections"+query, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var sections []models.NewsletterSection
		p := page{Items: &sections}
		decode(t, rec, &p)
		assert.EqualValues(t, 12, p.Total)
		out := make([]int, len(sections))
		for i, s := range sections {
			out[i] = s.Order
		}
		return out
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, orders("?pageIndex=0&pageSize=10"))
	assert.Equal(t, []int{10, 11}, orders("?pageIndex=1&pageSize=10"))
}

func insertCourse(t *testing.T, e *testEnv) primitive.ObjectID {
	t.Helper()
	course := &models.Course{Title: "CA Inter"}
	course.Init(time.Now())
	require.NoError(t, e.c.Courses.Insert(context.Background(), course))
	return course.ID
}

func TestTransactionVerification(t *testing.T) {
	e := newTestEnv(t)
	courseID := insertCourse(t, e)
	body := map[string]interface{}{
		"name": "Rohit", "email": "rohit@example.com", "courseId": courseID.Hex(),
		"amount": 4999, "utr": "utr123456789012",
	}

	bad := map[string]interface{}{}
	for k, v := range body {
		bad[k] = v
	}
	bad["utr"] = "12-34"
	rec := e.do(http.MethodPost, "/transactions", bad, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec, nil).Fields, "utr")

	bad["utr"] = body["utr"]
	bad["courseId"] = primitive.NewObjectID().Hex()
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/transactions", bad, "").Code)

	rec = e.do(http.MethodPost, "/transactions", body, e.userToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx models.Transaction
	decode(t, rec, &tx)
	assert.Equal(t, models.TransactionPending, tx.Status)
	assert.Equal(t, "UTR123456789012", tx.UTR)
	require.NotNil(t, tx.UserID)
	assert.Equal(t, e.userID, *tx.UserID)

	path := "/transactions/" + tx.ID.Hex() + "/verify"
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodPatch, path, map[string]string{"status": "approved"}, e.userToken).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, path, map[string]string{"status": "pending"}, e.adminToken).Code)

	rec = e.do(http.MethodPatch, path, map[string]string{"status": "approved", "remarks": "matched bank statement"}, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &tx)
	assert.Equal(t, models.TransactionApproved, tx.Status)
	assert.Equal(t, "admin@example.com", tx.VerifiedBy)
	assert.NotNil(t, tx.VerifiedAt)

	rec = e.do(http.MethodPatch, path, map[string]string{"status": "rejected"}, e.adminToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "transaction is already approved", decode(t, rec, nil).Error)

	rec = e.do(http.MethodGet, "/transactions?status=approved", nil, e.adminToken)
	var p page
	decode(t, rec, &p)
	assert.EqualValues(t, 1, p.Total)
}

func TestTransactionScreenshotUpload(t *testing.T) {
	e := newTestEnv(t)
	data, err := json.Marshal(map[string]interface{}{
		"name": "Sara", "email": "sara@example.com", "courseId": insertCourse(t, e).Hex(),
		"amount": 1500, "utr": "AXIS00001234567",
	})
	require.NoError(t, err)

	rec := e.multipart(http.MethodPost, "/transactions", map[string]string{"data": string(data)},
		[]formFileSpec{{field: "screenshot", name: "proof.jpg", content: []byte("jpeg")}}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tx models.Transaction
	decode(t, rec, &tx)
	assert.True(t, strings.HasPrefix(tx.Screenshot, "/uploads/"))
	assert.True(t, strings.HasSuffix(tx.Screenshot, ".jpg"))
	assert.Nil(t, tx.UserID)
}

func TestPrivacyPolicy(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/privacy-policy", nil, "").Code)

	rec := e.do(http.MethodPut, "/privacy-policy", map[string]string{"content": "v1"}, e.adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPut, "/privacy-policy", map[string]string{"content": "v2"}, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodGet, "/privacy-policy", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var policy models.PrivacyPolicy
	decode(t, rec, &policy)
	assert.Equal(t, "v2", policy.Content)
	assert.Equal(t, 2, policy.Version)

	n, err := e.c.PrivacyPolicies.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPut, "/privacy-policy", map[string]string{"content": " "}, e.adminToken).Code)
}

func TestStatistics(t *testing.T) {
	e := newTestEnv(t)
	insertCourse(t, e)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/leads", map[string]string{"name": "A", "phone": "9000000001"}, "").Code)
	require.Equal(t, http.StatusCreated, e.do(http.MethodPost, "/contacts", map[string]string{"name": "B", "email": "b@example.com", "message": "hi"}, "").Code)

	rec := e.do(http.MethodGet, "/admin/stats", nil, e.adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s statistic
	decode(t, rec, &s)
	assert.EqualValues(t, 1, s.Courses)
	assert.EqualValues(t, 1, s.Leads[models.LeadNew])
	assert.EqualValues(t, 0, s.Transactions[models.TransactionPending])
	assert.EqualValues(t, 1, s.OpenContacts)
}
