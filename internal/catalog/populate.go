package catalog

import (
	"context"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
)

type TopicView struct {
	models.Topic
	Quiz *models.Quiz `json:"quiz,omitempty"`
}

type SubchapterView struct {
	models.Subchapter
	Topics []TopicView `json:"topics"`
}

type ChapterView struct {
	models.Chapter
	Subchapters []SubchapterView `json:"subchapters"`
	Topics      []TopicView      `json:"topics"`
}

type SubjectView struct {
	models.Subject
	Chapters []ChapterView `json:"chapters"`
}

type CourseView struct {
	models.Course
	Subjects []SubjectView `json:"subjects"`
}

func byID[T any](ctx context.Context, repo store.Repository[T], ids []primitive.ObjectID, id func(T) primitive.ObjectID) (map[primitive.ObjectID]T, error) {
	if len(ids) == 0 {
		return map[primitive.ObjectID]T{}, nil
	}
	docs, err := repo.Find(ctx, store.IDs(ids))
	if err != nil {
		return nil, err
	}
	return lo.KeyBy(docs, id), nil
}

// pick returns the documents for ids in order, skipping dangling references.
func pick[T, V any](ids []primitive.ObjectID, docs map[primitive.ObjectID]T, view func(T) V) []V {
	return lo.FilterMap(ids, func(id primitive.ObjectID, _ int) (V, bool) {
		doc, ok := docs[id]
		if !ok {
			var zero V
			return zero, false
		}
		return view(doc), true
	})
}

// populate resolves the tree below the given courses with one query per
// level.
func (s *Service) populate(ctx context.Context, courses []models.Course) ([]CourseView, error) {
	subjects, err := byID(ctx, s.subjects,
		idsOf(courses, func(c models.Course) []primitive.ObjectID { return c.Subjects }),
		func(d models.Subject) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}
	chapters, err := byID(ctx, s.chapters,
		idsOf(lo.Values(subjects), func(d models.Subject) []primitive.ObjectID { return d.Chapters }),
		func(d models.Chapter) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}
	subchapters, err := byID(ctx, s.subchapters,
		idsOf(lo.Values(chapters), func(d models.Chapter) []primitive.ObjectID { return d.Subchapters }),
		func(d models.Subchapter) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}

	topicIDs := append(
		idsOf(lo.Values(subchapters), func(d models.Subchapter) []primitive.ObjectID { return d.Topics }),
		idsOf(lo.Values(chapters), func(d models.Chapter) []primitive.ObjectID { return d.Topics })...,
	)
	topics, err := byID(ctx, s.topics, lo.Uniq(topicIDs), func(d models.Topic) primitive.ObjectID { return d.ID })
	if err != nil {
		return nil, err
	}
	topicViews, err := s.topicViews(ctx, lo.Values(topics))
	if err != nil {
		return nil, err
	}

	topicView := func(t TopicView) TopicView { return t }
	subchapterView := func(d models.Subchapter) SubchapterView {
		return SubchapterView{Subchapter: d, Topics: pick(d.Topics, topicViews, topicView)}
	}
	chapterView := func(d models.Chapter) ChapterView {
		return ChapterView{
			Chapter:     d,
			Subchapters: pick(d.Subchapters, subchapters, subchapterView),
			Topics:      pick(d.Topics, topicViews, topicView),
		}
	}
	subjectView := func(d models.Subject) SubjectView {
		return SubjectView{Subject: d, Chapters: pick(d.Chapters, chapters, chapterView)}
	}

	return lo.Map(courses, func(c models.Course, _ int) CourseView {
		return CourseView{Course: c, Subjects: pick(c.Subjects, subjects, subjectView)}
	}), nil
}

// topicViews attaches each topic's quiz.
func (s *Service) topicViews(ctx context.Context, topics []models.Topic) (map[primitive.ObjectID]TopicView, error) {
	quizIDs := lo.FilterMap(topics, func(t models.Topic, _ int) (primitive.ObjectID, bool) {
		if t.Quiz == nil {
			return primitive.NilObjectID, false
		}
		return *t.Quiz, true
	})
	quizzes, err := byID(ctx, s.quizzes, quizIDs, func(q models.Quiz) primitive.ObjectID { return q.ID })
	if err != nil {
		return nil, err
	}

	views := make(map[primitive.ObjectID]TopicView, len(topics))
	for _, t := range topics {
		v := TopicView{Topic: t}
		if t.Quiz != nil {
			if q, ok := quizzes[*t.Quiz]; ok {
				v.Quiz = &q
			}
		}
		views[t.ID] = v
	}
	return views, nil
}
