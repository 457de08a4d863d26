package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// Collection, field and index names match the original mongoose "User" model so
// existing deployments keep their data.
const (
	votersCollection   = "users"
	voterIDIndex       = "voterID_1"
	voterUsernameIndex = "username_1"
)

type VoterRepository struct {
	coll *mongo.Collection
}

func NewVoterRepository(db *mongo.Database) *VoterRepository {
	return &VoterRepository{coll: db.Collection(votersCollection)}
}

type mongoVoter struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	VoterID   string             `bson:"voterID"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt,omitempty"`
}

func (r *VoterRepository) Create(ctx context.Context, voter *domain.Voter) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoVoter{
		VoterID:   voter.VoterID,
		Username:  domain.CanonicalUsername(voter.Username),
		Password:  voter.CredentialHash,
		CreatedAt: voter.CreatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		switch {
		case isDuplicateOn(err, voterIDIndex):
			return domain.ErrAlreadyRegistered
		case isDuplicateOn(err, voterUsernameIndex):
			return domain.ErrUsernameTaken
		}
		return unavailable("insert voter", err)
	}
	return nil
}

func (r *VoterRepository) FindByVoterID(ctx context.Context, voterID string) (*domain.Voter, error) {
	return r.findOne(ctx, bson.M{"voterID": voterID})
}

func (r *VoterRepository) FindByUsername(ctx context.Context, username string) (*domain.Voter, error) {
	return r.findOne(ctx, bson.M{"username": domain.CanonicalUsername(username)})
}

func (r *VoterRepository) findOne(ctx context.Context, filter bson.M) (*domain.Voter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mv mongoVoter
	if err := r.coll.FindOne(ctx, filter).Decode(&mv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoterNotFound
		}
		return nil, unavailable("find voter", err)
	}

	return &domain.Voter{
		VoterID:        mv.VoterID,
		Username:       mv.Username,
		CredentialHash: mv.Password,
		CreatedAt:      mv.CreatedAt,
	}, nil
}

// EnsureIndexes creates the unique voterID and username indexes.
func (r *VoterRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "voterID", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(voterIDIndex),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(voterUsernameIndex),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
