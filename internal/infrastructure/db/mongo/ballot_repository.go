package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// Collection and field names match the original mongoose "Vote" model.
const (
	ballotsCollection  = "votes"
	voterPositionIndex = "voterID_1_position_1"
)

type BallotRepository struct {
	coll *mongo.Collection
}

func NewBallotRepository(db *mongo.Database) *BallotRepository {
	return &BallotRepository{coll: db.Collection(ballotsCollection)}
}

type mongoBallot struct {
	ID        interface{} `bson:"_id"`
	VoterID   string      `bson:"voterID"`
	Candidate string      `bson:"candidate"`
	Position  string      `bson:"position"`
	Timestamp time.Time   `bson:"timestamp"`
}

func (m mongoBallot) toDomain() domain.Ballot {
	return domain.Ballot{
		ID:        idString(m.ID),
		VoterID:   m.VoterID,
		Candidate: m.Candidate,
		Position:  domain.Position(m.Position),
		CastAt:    m.Timestamp.UTC(),
	}
}

// Insert writes a ballot. The voterID_1_position_1 index rejects a second
// ballot for the same slot, including one racing in from another instance.
func (r *BallotRepository) Insert(ctx context.Context, b *domain.Ballot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoBallot{
		ID:        b.ID,
		VoterID:   b.VoterID,
		Candidate: b.Candidate,
		Position:  string(b.Position),
		Timestamp: b.CastAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if isDuplicateOn(err, voterPositionIndex) {
			return domain.ErrDuplicateVote
		}
		return unavailable("insert ballot", err)
	}
	return nil
}

func (r *BallotRepository) FindByVoterAndPosition(ctx context.Context, voterID string, position domain.Position) (*domain.Ballot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBallot
	err := r.coll.FindOne(ctx, bson.M{"voterID": voterID, "position": string(position)}).Decode(&mb)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBallotNotFound
		}
		return nil, unavailable("find ballot", err)
	}
	b := mb.toDomain()
	return &b, nil
}

func (r *BallotRepository) ListByVoter(ctx context.Context, voterID string) ([]domain.Ballot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"voterID": voterID}, opts)
	if err != nil {
		return nil, unavailable("list ballots", err)
	}

	var docs []mongoBallot
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decode ballots", err)
	}

	out := make([]domain.Ballot, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

type tallyRow struct {
	ID struct {
		Candidate string `bson:"candidate"`
		Position  string `bson:"position"`
	} `bson:"_id"`
	TotalVotes int64 `bson:"totalVotes"`
}

// Tally groups ballots by (candidate, position) and sorts by count descending,
// then candidate and position ascending.
func (r *BallotRepository) Tally(ctx context.Context) ([]domain.TallyEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "candidate", Value: "$candidate"},
				{Key: "position", Value: "$position"},
			}},
			{Key: "totalVotes", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "totalVotes", Value: -1},
			{Key: "_id.candidate", Value: 1},
			{Key: "_id.position", Value: 1},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, unavailable("aggregate ballots", err)
	}

	var rows []tallyRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, unavailable("decode tally", err)
	}

	out := make([]domain.TallyEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TallyEntry{
			Candidate:  row.ID.Candidate,
			Position:   domain.Position(row.ID.Position),
			TotalVotes: row.TotalVotes,
		})
	}
	return out, nil
}

func (r *BallotRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, unavailable("delete ballots", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique (voterID, position) index that enforces one
// ballot per seat, plus a lookup index on voterID.
func (r *BallotRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "voterID", Value: 1}, {Key: "position", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(voterPositionIndex),
		},
		{Keys: bson.D{{Key: "voterID", Value: 1}, {Key: "timestamp", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
