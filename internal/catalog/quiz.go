package catalog

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
	"learnhub/internal/utility"
)

// RandomSampleSize is the most questions RandomQuestions returns.
const RandomSampleSize = 5

type NewQuiz struct {
	TopicID   string            `json:"topicId" validate:"required"`
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions" validate:"required,dive"`
}

type QuizUpdate struct {
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions" validate:"required,dive"`
}

func (s *Service) CreateQuiz(ctx context.Context, in NewQuiz) (*models.Quiz, error) {
	if err := checkInput(&in, map[string][]models.Question{"questions": in.Questions}); err != nil {
		return nil, err
	}
	topicID, err := store.ParseID(in.TopicID)
	if err != nil {
		return nil, err
	}
	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		if errors.Cause(err) == store.ErrNotFound {
			return nil, utility.BadRequest("topic %s does not exist", in.TopicID)
		}
		return nil, err
	}
	n, err := s.quizzes.Count(ctx, bson.M{"topicId": topicID})
	if err != nil {
		return nil, err
	}
	if n > 0 || topic.Quiz != nil {
		return nil, utility.BadRequest("topic %s already has a quiz", in.TopicID)
	}
	return s.insertQuiz(ctx, topic, in.Title, in.Questions)
}

func (s *Service) insertQuiz(ctx context.Context, topic *models.Topic, title string, questions []models.Question) (*models.Quiz, error) {
	quiz := &models.Quiz{TopicID: topic.ID, Title: title, Questions: questions}
	if quiz.Title == "" {
		quiz.Title = topic.Title
	}
	quiz.Init(s.now())
	if err := s.quizzes.Insert(ctx, quiz); err != nil {
		return nil, errors.Wrap(err, "create quiz")
	}
	err := s.topics.Set(ctx, topic.ID, bson.M{"quiz": quiz.ID, "updatedAt": s.now().UTC()})
	if err != nil {
		if delErr := s.quizzes.Delete(context.WithoutCancel(ctx), quiz.ID); delErr != nil {
			return nil, errors.Wrapf(err, "link quiz (and undo failed: %v)", delErr)
		}
		return nil, errors.Wrap(err, "link quiz")
	}
	return quiz, nil
}

func (s *Service) GetQuiz(ctx context.Context, id primitive.ObjectID) (*models.Quiz, error) {
	return s.quizzes.Get(ctx, id)
}

func (s *Service) UpdateQuiz(ctx context.Context, id primitive.ObjectID, in QuizUpdate) (*models.Quiz, error) {
	if err := checkInput(&in, map[string][]models.Question{"questions": in.Questions}); err != nil {
		return nil, err
	}
	fields := bson.M{"questions": in.Questions, "updatedAt": s.now().UTC()}
	if in.Title != "" {
		fields["title"] = in.Title
	}
	if err := s.quizzes.Set(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.quizzes.Get(ctx, id)
}

// DeleteQuiz removes the quiz and clears the owning topic's reference.
func (s *Service) DeleteQuiz(ctx context.Context, id primitive.ObjectID) error {
	quiz, err := s.quizzes.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = s.quizzes.Delete(ctx, id); err != nil {
		return err
	}
	err = s.topics.Set(ctx, quiz.TopicID, bson.M{"quiz": nil, "updatedAt": s.now().UTC()})
	if err != nil && errors.Cause(err) != store.ErrNotFound {
		return errors.Wrap(err, "unlink quiz")
	}
	return nil
}

func (s *Service) QuizByTopic(ctx context.Context, topicID primitive.ObjectID) (*models.Quiz, error) {
	return s.quizzes.FindOne(ctx, bson.M{"topicId": topicID})
}

// UpsertTopicQuiz replaces the questions of the topic's quiz, creating the
// quiz when the topic has none.
func (s *Service) UpsertTopicQuiz(ctx context.Context, topicID primitive.ObjectID, in QuizUpdate) (*models.Quiz, error) {
	if err := checkInput(&in, map[string][]models.Question{"questions": in.Questions}); err != nil {
		return nil, err
	}
	topic, err := s.topics.Get(ctx, topicID)
	if err != nil {
		return nil, err
	}

	existing, err := s.QuizByTopic(ctx, topicID)
	switch {
	case err == nil:
		quiz, err := s.UpdateQuiz(ctx, existing.ID, in)
		if err != nil {
			return nil, err
		}
		if topic.Quiz == nil || *topic.Quiz != quiz.ID {
			if err = s.topics.Set(ctx, topicID, bson.M{"quiz": quiz.ID}); err != nil {
				return nil, errors.Wrap(err, "link quiz")
			}
		}
		return quiz, nil
	case errors.Cause(err) == store.ErrNotFound:
		return s.insertQuiz(ctx, topic, in.Title, in.Questions)
	default:
		return nil, err
	}
}

// RandomQuestions returns up to RandomSampleSize questions of the topic's
// quiz drawn uniformly without replacement.
func (s *Service) RandomQuestions(ctx context.Context, topicID primitive.ObjectID) ([]models.Question, error) {
	quiz, err := s.QuizByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	questions := append([]models.Question(nil), quiz.Questions...)
	s.shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
	if len(questions) > RandomSampleSize {
		questions = questions[:RandomSampleSize]
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}
