package catalog

import (
	"context"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
)

// TopicUpdate replaces a topic's own fields. Its quiz is managed through the
// quiz operations.
type TopicUpdate struct {
	Title    string `json:"title" validate:"notblank"`
	Content  string `json:"content"`
	VideoURL string `json:"videoUrl"`
}

func topicGroups(in *TopicInput) map[string][]models.Question {
	if !in.hasQuiz() {
		return nil
	}
	return map[string][]models.Question{"quiz.questions": in.Quiz.Questions}
}

func (s *Service) ListTopics(ctx context.Context) ([]models.Topic, error) {
	return s.topics.Find(ctx, nil)
}

func (s *Service) GetTopic(ctx context.Context, id primitive.ObjectID) (*TopicView, error) {
	topic, err := s.topics.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.topicViews(ctx, []models.Topic{*topic})
	if err != nil {
		return nil, err
	}
	v := views[topic.ID]
	return &v, nil
}

// CreateTopic creates a standalone topic and, when given, its quiz.
func (s *Service) CreateTopic(ctx context.Context, in TopicInput) (_ *models.Topic, err error) {
	if err = checkInput(&in, topicGroups(&in)); err != nil {
		return nil, err
	}
	sg := &saga{}
	defer func() {
		if err != nil {
			sg.compensate(ctx)
		}
	}()
	return s.createTopic(ctx, sg, in, nil)
}

// CreateChapterTopic creates a topic and appends it to the chapter's topics.
func (s *Service) CreateChapterTopic(ctx context.Context, chapterID primitive.ObjectID, in TopicInput) (_ *models.Topic, err error) {
	if err = checkInput(&in, topicGroups(&in)); err != nil {
		return nil, err
	}
	if _, err = s.chapters.Get(ctx, chapterID); err != nil {
		return nil, err
	}

	sg := &saga{}
	defer func() {
		if err != nil {
			sg.compensate(ctx)
		}
	}()

	topic, err := s.createTopic(ctx, sg, in, &chapterID)
	if err != nil {
		return nil, err
	}
	if err = s.chapters.Push(ctx, chapterID, "topics", topic.ID); err != nil {
		return nil, errors.Wrap(err, "attach topic")
	}
	return topic, nil
}

// ListChapterTopics returns the chapter's topics in chapter order.
func (s *Service) ListChapterTopics(ctx context.Context, chapterID primitive.ObjectID) ([]TopicView, error) {
	chapter, err := s.chapters.Get(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	topics, err := byID(ctx, s.topics, chapter.Topics, func(t models.Topic) primitive.ObjectID { return t.ID })
	if err != nil {
		return nil, err
	}
	views, err := s.topicViews(ctx, lo.Values(topics))
	if err != nil {
		return nil, err
	}
	return pick(chapter.Topics, views, func(v TopicView) TopicView { return v }), nil
}

func (s *Service) UpdateTopic(ctx context.Context, id primitive.ObjectID, in TopicUpdate) (*TopicView, error) {
	if err := checkInput(&in, nil); err != nil {
		return nil, err
	}
	err := s.topics.Set(ctx, id, bson.M{
		"title":     in.Title,
		"content":   in.Content,
		"videoUrl":  in.VideoURL,
		"updatedAt": s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return s.GetTopic(ctx, id)
}

// DeleteTopic removes the topic, every reference to it from chapters and
// subchapters, and its quiz.
func (s *Service) DeleteTopic(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.topics.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.chapters.Pull(ctx, "topics", id); err != nil {
		return errors.Wrap(err, "detach topic from chapters")
	}
	if _, err := s.subchapters.Pull(ctx, "topics", id); err != nil {
		return errors.Wrap(err, "detach topic from subchapters")
	}
	if _, err := s.quizzes.DeleteMany(ctx, bson.M{"topicId": id}); err != nil {
		return errors.Wrap(err, "delete topic quiz")
	}
	return s.topics.Delete(ctx, id)
}
