package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/user-auth-service/internal/domain/entity"
	"github.com/oksasatya/user-auth-service/internal/domain/repository"
)

const (
	UsersCollection = "users"

	// activeEmailIndex enforces one active account per email.
	activeEmailIndex = "email_active_unique"

	duplicateKeyCode = 11000
)

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Status      string             `bson:"status"`
	FirstName   string             `bson:"first_name"`
	LastName    string             `bson:"last_name"`
	Email       string             `bson:"email"`
	Password    string             `bson:"password"`
	Role        string             `bson:"role"`
	Balance     int                `bson:"balance"`
	Address     []string           `bson:"address"`
	PhoneNumber string             `bson:"phone_number"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:          d.ID.Hex(),
		Status:      entity.Status(d.Status),
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		Password:    d.Password,
		Role:        entity.Role(d.Role),
		Balance:     d.Balance,
		Address:     d.Address,
		PhoneNumber: d.PhoneNumber,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func fromEntity(u *entity.User) *userDocument {
	address := u.Address
	if address == nil {
		address = []string{}
	}
	return &userDocument{
		Status:      string(u.Status),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Password:    u.Password,
		Role:        string(u.Role),
		Balance:     u.Balance,
		Address:     address,
		PhoneNumber: u.PhoneNumber,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type UserRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection), now: time.Now}
}

// EnsureIndexes creates the unique partial index on email for active users.
// It is idempotent and meant to run once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName(activeEmailIndex).
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": string(entity.StatusActive)}),
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	doc := fromEntity(u)
	doc.ID = primitive.NewObjectID()
	now := r.now().UTC().Truncate(time.Millisecond)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if isDuplicateKey(err) {
			return repository.ErrDuplicateEmail
		}
		return err
	}

	u.ID = doc.ID.Hex()
	u.Address = doc.Address
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "status": string(entity.StatusActive)})
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "status": string(entity.StatusActive)})
}

func (r *UserRepository) FindActiveCredentials(ctx context.Context, email string) (*entity.User, error) {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1, "password": 1})
	return r.findOne(ctx, bson.M{"email": email, "status": string(entity.StatusActive)}, opts)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func isDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == duplicateKeyCode {
				return true
			}
		}
	}
	return mongo.IsDuplicateKeyError(err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
