package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const refreshTokensCollection = "refresh_tokens"

type RefreshTokenRepository struct {
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

func NewRefreshTokenRepository(db *mongo.Database, timeout time.Duration) *RefreshTokenRepository {
	return &RefreshTokenRepository{
		coll:    db.Collection(refreshTokensCollection),
		timeout: orDefault(timeout),
		now:     time.Now,
	}
}

type refreshTokenDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UserID    primitive.ObjectID `bson:"user_id"`
	IssuedAt  time.Time          `bson:"issued_at"`
	ExpiresAt time.Time          `bson:"expires_at"`
	IsRevoked bool               `bson:"is_revoked"`
	RevokedAt *time.Time         `bson:"revoked_at,omitempty"`
}

func (d *refreshTokenDocument) toDomain() *domain.RefreshToken {
	t := &domain.RefreshToken{
		ID:        d.ID.Hex(),
		Token:     d.Token,
		UserID:    d.UserID.Hex(),
		IssuedAt:  d.IssuedAt.UTC(),
		ExpiresAt: d.ExpiresAt.UTC(),
		IsRevoked: d.IsRevoked,
	}
	if d.RevokedAt != nil {
		t.RevokedAt = d.RevokedAt.UTC()
	}
	return t
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	userID, err := primitive.ObjectIDFromHex(token.UserID)
	if err != nil {
		return domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	doc := refreshTokenDocument{
		ID:        primitive.NewObjectID(),
		Token:     token.Token,
		UserID:    userID,
		IssuedAt:  token.IssuedAt,
		ExpiresAt: token.ExpiresAt,
		IsRevoked: token.IsRevoked,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateToken
		}
		return storeErr("insert refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindActive(ctx context.Context, token string) (*domain.RefreshToken, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var doc refreshTokenDocument
	err := r.coll.FindOne(ctx, bson.M{"token": token, "is_revoked": false}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, storeErr("find refresh token", err)
	}
	return doc.toDomain(), nil
}

// Revoke flips is_revoked with a conditional update, so only one of several
// concurrent callers observes true.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"token": token, "is_revoked": false},
		bson.M{"$set": bson.M{"is_revoked": true, "revoked_at": r.now().UTC()}},
	)
	if err != nil {
		return false, storeErr("revoke refresh token", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *RefreshTokenRepository) RevokeAll(ctx context.Context, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": oid, "is_revoked": false},
		bson.M{"$set": bson.M{"is_revoked": true, "revoked_at": r.now().UTC()}},
	)
	if err != nil {
		return 0, storeErr("revoke user refresh tokens", err)
	}
	return res.ModifiedCount, nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now, revokedBefore time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"expires_at": bson.M{"$lte": now}},
		bson.M{"is_revoked": true, "revoked_at": bson.M{"$lte": revokedBefore}},
	}}

	res, err := r.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, storeErr("delete expired refresh tokens", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique token index, the per-user lookup index and
// a TTL index that lets the server drop rows once expires_at has passed.
func (r *RefreshTokenRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexCreateTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetName("uniq_token").SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "is_revoked", Value: 1}}, Options: options.Index().SetName("user_active")},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
