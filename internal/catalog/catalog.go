// Package catalog manages the course content tree: courses, subjects,
// chapters, subchapters, topics and their quizzes.
package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
	"learnhub/internal/utility/log"
)

type Service struct {
	courses     store.Repository[models.Course]
	subjects    store.Repository[models.Subject]
	chapters    store.Repository[models.Chapter]
	subchapters store.Repository[models.Subchapter]
	topics      store.Repository[models.Topic]
	quizzes     store.Repository[models.Quiz]

	now     func() time.Time
	shuffle func(n int, swap func(i, j int))
}

func NewService(c *store.Collections) *Service {
	return &Service{
		courses:     c.Courses,
		subjects:    c.Subjects,
		chapters:    c.Chapters,
		subchapters: c.Subchapters,
		topics:      c.Topics,
		quizzes:     c.Quizzes,
		now:         time.Now,
		shuffle:     rand.Shuffle,
	}
}

// saga remembers how to undo every document written during one request.
type saga struct {
	undo []func(ctx context.Context) error
}

func (s *saga) created(name string, id primitive.ObjectID, del func(context.Context, primitive.ObjectID) error) {
	s.undo = append(s.undo, func(ctx context.Context) error {
		return errors.Wrapf(del(ctx, id), "undo %s %s", name, id.Hex())
	})
}

// compensate runs the undo steps newest first. It keeps going past
// failures so that as much as possible is removed.
func (s *saga) compensate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	for i := len(s.undo) - 1; i >= 0; i-- {
		if err := s.undo[i](ctx); err != nil {
			log.CtxError(ctx, "catalog: compensation failed: %v", err)
		}
	}
	s.undo = nil
}

const invalidAnswer = "answer must be the index of one of the options"

// checkInput runs struct validation and verifies every question's answer
// index. groups maps a JSON path prefix to the questions found there.
func checkInput(in interface{}, groups map[string][]models.Question) error {
	fields := map[string]string{}
	if err := utility.Validate(in); err != nil {
		var verr *utility.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		for k, v := range verr.Fields {
			fields[k] = v
		}
	}
	for path, questions := range groups {
		for i, q := range questions {
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				fields[fmt.Sprintf("%s[%d].answer", path, i)] = invalidAnswer
			}
		}
	}
	if len(fields) > 0 {
		return &utility.ValidationError{Fields: fields}
	}
	return nil
}
