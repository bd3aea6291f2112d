package handlers

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"learnhub/internal/models"
	response "learnhub/internal/utility/http"
)

type statistic struct {
	Courses           int64            `json:"courses"`
	Topics            int64            `json:"topics"`
	Quizzes           int64            `json:"quizzes"`
	UniversityCourses int64            `json:"universityCourses"`
	Users             int64            `json:"users"`
	Simulations       int64            `json:"simulations"`
	Leads             map[string]int64 `json:"leads"`
	Transactions      map[string]int64 `json:"transactions"`
	OpenContacts      int64            `json:"openContacts"`
}

type counter interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
}

func countBy(ctx context.Context, c counter, field string, values ...string) (map[string]int64, error) {
	out := make(map[string]int64, len(values))
	for _, v := range values {
		n, err := c.Count(ctx, bson.M{field: v})
		if err != nil {
			return nil, err
		}
		out[v] = n
	}
	return out, nil
}

// GetStatistics summarises the admin dashboard counters.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statistics(r.Context())
	if err != nil {
		response.RespondError(w, r, errors.Wrap(err, "statistics"))
		return
	}
	response.RespondSuccess(w, stats)
}

func (h *Handler) statistics(ctx context.Context) (*statistic, error) {
	c := h.Collections
	var s statistic
	totals := []struct {
		dst  *int64
		repo counter
	}{
		{&s.Courses, c.Courses},
		{&s.Topics, c.Topics},
		{&s.Quizzes, c.Quizzes},
		{&s.UniversityCourses, c.UniversityCourses},
		{&s.Users, c.Users},
		{&s.Simulations, c.TDSSimulations},
	}
	var err error
	for _, t := range totals {
		if *t.dst, err = t.repo.Count(ctx, nil); err != nil {
			return nil, err
		}
	}

	if s.Leads, err = countBy(ctx, c.Leads, "status",
		models.LeadNew, models.LeadContacted, models.LeadAdmitted, models.LeadClosed); err != nil {
		return nil, err
	}
	if s.Transactions, err = countBy(ctx, c.Transactions, "status",
		models.TransactionPending, models.TransactionApproved, models.TransactionRejected); err != nil {
		return nil, err
	}
	if s.OpenContacts, err = c.Contacts.Count(ctx, bson.M{"resolved": false}); err != nil {
		return nil, err
	}
	return &s, nil
}
