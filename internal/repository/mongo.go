package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mufashe/mufashe-api/internal/domain"
)

var (
	_ UserRepository         = (*MongoUserRepo)(nil)
	_ ConsultationRepository = (*MongoConsultationRepo)(nil)
	_ ResourceRepository     = (*MongoResourceRepo)(nil)
)

const (
	usersCollection         = "users"
	consultationsCollection = "consultations"
	resourcesCollection     = "resources"
)

// NewMongoStore builds every repository on one database.
func NewMongoStore(db *mongo.Database) Store {
	return Store{
		Users:         NewMongoUserRepo(db),
		Consultations: NewMongoConsultationRepo(db),
		Resources:     NewMongoResourceRepo(db),
	}
}

// EnsureMongoIndexes creates the unique and lookup indexes the store relies on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetName(usersNameIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(usersEmailIndex).SetUnique(true).SetSparse(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetName(usersPhoneIndex).SetUnique(true).SetSparse(true)},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	consultationIndex := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := db.Collection(consultationsCollection).Indexes().CreateOne(ctx, consultationIndex); err != nil {
		return fmt.Errorf("create consultation indexes: %w", err)
	}

	resourceIndex := mongo.IndexModel{Keys: bson.D{{Key: "category", Value: 1}, {Key: "language", Value: 1}}}
	if _, err := db.Collection(resourcesCollection).Indexes().CreateOne(ctx, resourceIndex); err != nil {
		return fmt.Errorf("create resource indexes: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           int64     `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email,omitempty"`
	Phone        string    `bson:"phone,omitempty"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (d mongoUser) toDomain() domain.User {
	return domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// MongoUserRepo implements UserRepository.
type MongoUserRepo struct {
	users *mongo.Collection
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{users: db.Collection(usersCollection)}
}

func (r *MongoUserRepo) FindByField(ctx context.Context, field domain.Field, value string) (domain.User, error) {
	key, err := userColumn(field)
	if err != nil {
		return domain.User{}, err
	}
	user, err := r.findOne(ctx, bson.M{key: value})
	if err != nil {
		return domain.User{}, fmt.Errorf("find user by %s: %w", field, err)
	}
	return user, nil
}

func (r *MongoUserRepo) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	user, err := r.findOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if !user.HasContact() {
		return domain.User{}, fmt.Errorf("insert user %d: %w", user.ID, ErrMissingContact)
	}
	now := mongoNow()
	doc := mongoUser{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Phone:        user.Phone,
		PasswordHash: user.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if field, ok := mongoDuplicateField(err); ok {
			return domain.User{}, &DuplicateKeyError{Field: field, Err: err}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var doc mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return doc.toDomain(), nil
}

type mongoConsultation struct {
	ID        int64     `bson:"_id"`
	UserID    *int64    `bson:"user_id,omitempty"`
	Question  string    `bson:"question"`
	Answer    string    `bson:"answer"`
	Language  string    `bson:"language"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d mongoConsultation) toDomain() domain.Consultation {
	return domain.Consultation{
		ID:        d.ID,
		UserID:    d.UserID,
		Question:  d.Question,
		Answer:    d.Answer,
		Language:  d.Language,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoConsultationRepo implements ConsultationRepository.
type MongoConsultationRepo struct {
	consultations *mongo.Collection
}

func NewMongoConsultationRepo(db *mongo.Database) *MongoConsultationRepo {
	return &MongoConsultationRepo{consultations: db.Collection(consultationsCollection)}
}

func (r *MongoConsultationRepo) Create(ctx context.Context, c domain.Consultation) (domain.Consultation, error) {
	now := mongoNow()
	doc := mongoConsultation{
		ID:        c.ID,
		UserID:    c.UserID,
		Question:  c.Question,
		Answer:    c.Answer,
		Language:  c.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.consultations.InsertOne(ctx, doc); err != nil {
		return domain.Consultation{}, fmt.Errorf("create consultation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoConsultationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.consultations.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}

	var docs []mongoConsultation
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode consultations: %w", err)
	}

	res := make([]domain.Consultation, 0, len(docs))
	for _, d := range docs {
		res = append(res, d.toDomain())
	}
	return res, nil
}

type mongoResource struct {
	ID        int64     `bson:"_id"`
	Title     string    `bson:"title"`
	Category  string    `bson:"category"`
	Language  string    `bson:"language"`
	Minutes   int       `bson:"minutes"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoResourceRepo implements ResourceRepository.
type MongoResourceRepo struct {
	resources *mongo.Collection
}

func NewMongoResourceRepo(db *mongo.Database) *MongoResourceRepo {
	return &MongoResourceRepo{resources: db.Collection(resourcesCollection)}
}

func (r *MongoResourceRepo) List(ctx context.Context, filter domain.ResourceFilter) ([]domain.Resource, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.M{"title": 1, "category": 1, "language": 1, "minutes": 1, "created_at": 1})
	cursor, err := r.resources.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}

	var docs []mongoResource
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode resources: %w", err)
	}

	res := make([]domain.Resource, 0, len(docs))
	for _, d := range docs {
		res = append(res, domain.Resource{
			ID:        d.ID,
			Title:     d.Title,
			Category:  d.Category,
			Language:  d.Language,
			Minutes:   d.Minutes,
			CreatedAt: d.CreatedAt,
		})
	}
	return res, nil
}

func (r *MongoResourceRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.resources.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count resources: %w", err)
	}
	return n, nil
}

func (r *MongoResourceRepo) CreateMany(ctx context.Context, resources []domain.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	now := mongoNow()
	docs := make([]interface{}, 0, len(resources))
	for _, item := range resources {
		docs = append(docs, mongoResource{
			ID:        item.ID,
			Title:     item.Title,
			Category:  item.Category,
			Language:  item.Language,
			Minutes:   item.Minutes,
			Content:   item.Content,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := r.resources.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert resources: %w", err)
	}
	return nil
}

// mongoDuplicateField extracts the field of an E11000 error from the index
// name embedded in the server message.
func mongoDuplicateField(err error) (domain.Field, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, writeErr := range we.WriteErrors {
			if field := fieldFromIndex(writeErr.Message); field != "" {
				return field, true
			}
		}
	}
	return fieldFromIndex(err.Error()), true
}

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
