package store

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"learnhub/internal/models"
)

// Collection names
const (
	CoursesCollection            = "courses"
	SubjectsCollection           = "subjects"
	ChaptersCollection           = "chapters"
	SubchaptersCollection        = "subchapters"
	TopicsCollection             = "topics"
	QuizzesCollection            = "quizzes"
	TDSSimulationsCollection     = "tdsSimulations"
	UniversityCoursesCollection  = "universityCourses"
	LeadsCollection              = "leads"
	CentersCollection            = "centers"
	TransactionsCollection       = "transactions"
	NewsletterSectionsCollection = "newsletterSections"
	ContactsCollection           = "contacts"
	PrivacyPoliciesCollection    = "privacyPolicies"
	UsersCollection              = "users"
	AdminsCollection             = "admins"
)

// Collections groups one repository per stored entity.
type Collections struct {
	Courses            Repository[models.Course]
	Subjects           Repository[models.Subject]
	Chapters           Repository[models.Chapter]
	Subchapters        Repository[models.Subchapter]
	Topics             Repository[models.Topic]
	Quizzes            Repository[models.Quiz]
	TDSSimulations     Repository[models.TDSSimulation]
	UniversityCourses  Repository[models.UniversityCourse]
	Leads              Repository[models.Lead]
	Centers            Repository[models.Center]
	Transactions       Repository[models.Transaction]
	NewsletterSections Repository[models.NewsletterSection]
	Contacts           Repository[models.Contact]
	PrivacyPolicies    Repository[models.PrivacyPolicy]
	Users              Repository[models.User]
	Admins             Repository[models.Admin]
}

func NewMongoCollections(db *mongo.Database, timeout time.Duration) *Collections {
	return &Collections{
		Courses:            NewMongo[models.Course](db.Collection(CoursesCollection), timeout),
		Subjects:           NewMongo[models.Subject](db.Collection(SubjectsCollection), timeout),
		Chapters:           NewMongo[models.Chapter](db.Collection(ChaptersCollection), timeout),
		Subchapters:        NewMongo[models.Subchapter](db.Collection(SubchaptersCollection), timeout),
		Topics:             NewMongo[models.Topic](db.Collection(TopicsCollection), timeout),
		Quizzes:            NewMongo[models.Quiz](db.Collection(QuizzesCollection), timeout),
		TDSSimulations:     NewMongo[models.TDSSimulation](db.Collection(TDSSimulationsCollection), timeout),
		UniversityCourses:  NewMongo[models.UniversityCourse](db.Collection(UniversityCoursesCollection), timeout),
		Leads:              NewMongo[models.Lead](db.Collection(LeadsCollection), timeout),
		Centers:            NewMongo[models.Center](db.Collection(CentersCollection), timeout),
		Transactions:       NewMongo[models.Transaction](db.Collection(TransactionsCollection), timeout),
		NewsletterSections: NewMongo[models.NewsletterSection](db.Collection(NewsletterSectionsCollection), timeout),
		Contacts:           NewMongo[models.Contact](db.Collection(ContactsCollection), timeout),
		PrivacyPolicies:    NewMongo[models.PrivacyPolicy](db.Collection(PrivacyPoliciesCollection), timeout),
		Users:              NewMongo[models.User](db.Collection(UsersCollection), timeout),
		Admins:             NewMongo[models.Admin](db.Collection(AdminsCollection), timeout),
	}
}

// NewMemoryCollections mirrors the unique indexes created by
// database.EnsureIndexes.
func NewMemoryCollections() *Collections {
	return &Collections{
		Courses:            NewMemory[models.Course](CoursesCollection),
		Subjects:           NewMemory[models.Subject](SubjectsCollection),
		Chapters:           NewMemory[models.Chapter](ChaptersCollection),
		Subchapters:        NewMemory[models.Subchapter](SubchaptersCollection),
		Topics:             NewMemory[models.Topic](TopicsCollection),
		Quizzes:            NewMemory[models.Quiz](QuizzesCollection, "topicId"),
		TDSSimulations:     NewMemory[models.TDSSimulation](TDSSimulationsCollection),
		UniversityCourses:  NewMemory[models.UniversityCourse](UniversityCoursesCollection, "slug"),
		Leads:              NewMemory[models.Lead](LeadsCollection),
		Centers:            NewMemory[models.Center](CentersCollection),
		Transactions:       NewMemory[models.Transaction](TransactionsCollection),
		NewsletterSections: NewMemory[models.NewsletterSection](NewsletterSectionsCollection),
		Contacts:           NewMemory[models.Contact](ContactsCollection),
		PrivacyPolicies:    NewMemory[models.PrivacyPolicy](PrivacyPoliciesCollection),
		Users:              NewMemory[models.User](UsersCollection, "email"),
		Admins:             NewMemory[models.Admin](AdminsCollection, "email"),
	}
}
