package catalog

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"learnhub/internal/models"
	"learnhub/internal/store"
)

type QuizInput struct {
	Title     string            `json:"title"`
	Questions []models.Question `json:"questions" validate:"dive"`
}

type TopicInput struct {
	Title    string     `json:"title" validate:"notblank"`
	Content  string     `json:"content"`
	VideoURL string     `json:"videoUrl"`
	Quiz     *QuizInput `json:"quiz"`
}

type SubchapterInput struct {
	Title  string       `json:"title" validate:"notblank"`
	Topics []TopicInput `json:"topics" validate:"dive"`
}

type ChapterInput struct {
	Title       string            `json:"title" validate:"notblank"`
	Subchapters []SubchapterInput `json:"subchapters" validate:"dive"`
}

type SubjectInput struct {
	Title    string         `json:"title" validate:"notblank"`
	Chapters []ChapterInput `json:"chapters" validate:"dive"`
}

// NewCourse is the full tree submitted to CreateCourse.
type NewCourse struct {
	Title        string         `json:"title" validate:"notblank"`
	Description  string         `json:"description"`
	Price        float64        `json:"price" validate:"gte=0"`
	PreviewImage string         `json:"previewImage"`
	Subjects     []SubjectInput `json:"subjects" validate:"dive"`
}

func (t *TopicInput) hasQuiz() bool {
	return t.Quiz != nil && t.Quiz.Questions != nil
}

func (c *NewCourse) questionGroups() map[string][]models.Question {
	groups := map[string][]models.Question{}
	for si, s := range c.Subjects {
		for ci, ch := range s.Chapters {
			for sci, sc := range ch.Subchapters {
				for ti, t := range sc.Topics {
					if t.hasQuiz() {
						path := fmt.Sprintf("subjects[%d].chapters[%d].subchapters[%d].topics[%d].quiz.questions", si, ci, sci, ti)
						groups[path] = t.Quiz.Questions
					}
				}
			}
		}
	}
	return groups
}

// Check validates the whole tree, including quiz answer indexes, without
// writing anything.
func (in *NewCourse) Check() error {
	return checkInput(in, in.questionGroups())
}

// CreateCourse writes the whole tree bottom-up so that every parent is
// inserted after the children it references. On failure every document
// already written is deleted again, newest first.
func (s *Service) CreateCourse(ctx context.Context, in NewCourse) (_ *CourseView, err error) {
	if err = in.Check(); err != nil {
		return nil, err
	}

	sg := &saga{}
	defer func() {
		if err != nil {
			sg.compensate(ctx)
		}
	}()

	subjectIDs := make([]primitive.ObjectID, 0, len(in.Subjects))
	for _, subject := range in.Subjects {
		id, err := s.createSubject(ctx, sg, subject)
		if err != nil {
			return nil, err
		}
		subjectIDs = append(subjectIDs, id)
	}

	course := &models.Course{
		Title:        in.Title,
		Description:  in.Description,
		Price:        in.Price,
		PreviewImage: in.PreviewImage,
		Subjects:     subjectIDs,
	}
	course.Init(s.now())
	if err = s.courses.Insert(ctx, course); err != nil {
		return nil, errors.Wrap(err, "create course")
	}
	sg.created("course", course.ID, s.courses.Delete)

	return s.GetCourse(ctx, course.ID)
}

func (s *Service) createSubject(ctx context.Context, sg *saga, in SubjectInput) (primitive.ObjectID, error) {
	chapterIDs := make([]primitive.ObjectID, 0, len(in.Chapters))
	for _, chapter := range in.Chapters {
		id, err := s.createChapter(ctx, sg, chapter)
		if err != nil {
			return primitive.NilObjectID, err
		}
		chapterIDs = append(chapterIDs, id)
	}

	subject := &models.Subject{Title: in.Title, Chapters: chapterIDs}
	subject.Init(s.now())
	if err := s.subjects.Insert(ctx, subject); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "create subject")
	}
	sg.created("subject", subject.ID, s.subjects.Delete)
	return subject.ID, nil
}

func (s *Service) createChapter(ctx context.Context, sg *saga, in ChapterInput) (primitive.ObjectID, error) {
	subchapterIDs := make([]primitive.ObjectID, 0, len(in.Subchapters))
	for _, sub := range in.Subchapters {
		id, err := s.createSubchapter(ctx, sg, sub)
		if err != nil {
			return primitive.NilObjectID, err
		}
		subchapterIDs = append(subchapterIDs, id)
	}

	chapter := &models.Chapter{Title: in.Title, Subchapters: subchapterIDs, Topics: []primitive.ObjectID{}}
	chapter.Init(s.now())
	if err := s.chapters.Insert(ctx, chapter); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "create chapter")
	}
	sg.created("chapter", chapter.ID, s.chapters.Delete)
	return chapter.ID, nil
}

func (s *Service) createSubchapter(ctx context.Context, sg *saga, in SubchapterInput) (primitive.ObjectID, error) {
	topicIDs := make([]primitive.ObjectID, 0, len(in.Topics))
	for _, t := range in.Topics {
		topic, err := s.createTopic(ctx, sg, t, nil)
		if err != nil {
			return primitive.NilObjectID, err
		}
		topicIDs = append(topicIDs, topic.ID)
	}

	sub := &models.Subchapter{Title: in.Title, Topics: topicIDs}
	sub.Init(s.now())
	if err := s.subchapters.Insert(ctx, sub); err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "create subchapter")
	}
	sg.created("subchapter", sub.ID, s.subchapters.Delete)
	return sub.ID, nil
}

// createTopic inserts the topic's quiz first, then the topic pointing at it.
// The topic id is allocated up front so the quiz can name its owner.
func (s *Service) createTopic(ctx context.Context, sg *saga, in TopicInput, chapterID *primitive.ObjectID) (*models.Topic, error) {
	topic := &models.Topic{
		Title:     in.Title,
		Content:   in.Content,
		VideoURL:  in.VideoURL,
		ChapterID: chapterID,
	}
	topic.Init(s.now())

	if in.hasQuiz() {
		quiz := &models.Quiz{TopicID: topic.ID, Title: in.Quiz.Title, Questions: in.Quiz.Questions}
		if quiz.Title == "" {
			quiz.Title = in.Title
		}
		quiz.Init(s.now())
		if err := s.quizzes.Insert(ctx, quiz); err != nil {
			return nil, errors.Wrap(err, "create quiz")
		}
		sg.created("quiz", quiz.ID, s.quizzes.Delete)
		topic.Quiz = &quiz.ID
	}

	if err := s.topics.Insert(ctx, topic); err != nil {
		return nil, errors.Wrap(err, "create topic")
	}
	sg.created("topic", topic.ID, s.topics.Delete)
	return topic, nil
}

func (s *Service) ListCourses(ctx context.Context) ([]CourseView, error) {
	courses, err := s.courses.Find(ctx, nil, store.FindOptions{Newest: true})
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, courses)
}

func (s *Service) GetCourse(ctx context.Context, id primitive.ObjectID) (*CourseView, error) {
	course, err := s.courses.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []models.Course{*course})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// DeleteCourse removes only the course document; its subjects stay.
func (s *Service) DeleteCourse(ctx context.Context, id primitive.ObjectID) error {
	return s.courses.Delete(ctx, id)
}

func idsOf[T any](docs []T, ids func(T) []primitive.ObjectID) []primitive.ObjectID {
	return lo.Uniq(lo.FlatMap(docs, func(d T, _ int) []primitive.ObjectID { return ids(d) }))
}
