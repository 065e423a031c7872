package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/guardpost/access-api/internal/core/domain"
)

const (
	usersCollection       = "users"
	rolesCollection       = "roles"
	permissionsCollection = "permissions"
)

// MongoUserRepository is the credential store. FindByUsername returns the
// user with its full role/permission graph assembled — the nested sets are
// always non-nil, which is what lets the resolver treat nil as a data bug.
type MongoUserRepository struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users: db.Collection(usersCollection),
		roles: db.Collection(rolesCollection),
	}
}

type mongoUser struct {
	Username              string   `bson:"username"`
	PasswordHash          string   `bson:"password_hash"`
	Enabled               bool     `bson:"enabled"`
	AccountNonExpired     bool     `bson:"account_non_expired"`
	AccountNonLocked      bool     `bson:"account_non_locked"`
	CredentialsNonExpired bool     `bson:"credentials_non_expired"`
	Roles                 []string `bson:"roles"`
	CreatedAt             int64    `bson:"created_at"`
	UpdatedAt             int64    `bson:"updated_at"`
}

type mongoRole struct {
	ID          string   `bson:"_id"`
	Permissions []string `bson:"permissions"`
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"username": username}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := r.loadRoles(ctx, mu.Roles)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:              mu.Username,
		PasswordHash:          mu.PasswordHash,
		Enabled:               mu.Enabled,
		AccountNonExpired:     mu.AccountNonExpired,
		AccountNonLocked:      mu.AccountNonLocked,
		CredentialsNonExpired: mu.CredentialsNonExpired,
		Roles:                 roles,
	}, nil
}

// loadRoles resolves every referenced role document eagerly. A role id with
// no backing document means the seed graph is broken and surfaces as a
// data-integrity failure instead of a silently smaller authority set.
func (r *MongoUserRepository) loadRoles(ctx context.Context, ids []string) ([]domain.Role, error) {
	roles := make([]domain.Role, 0, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}

	cursor, err := r.roles.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[string]mongoRole, len(ids))
	for cursor.Next(ctx) {
		var mr mongoRole
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode role: %w", err)
		}
		byID[mr.ID] = mr
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}

	for _, id := range ids {
		mr, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: user references unknown role %q", domain.ErrDataIntegrity, id)
		}
		perms := make([]domain.Permission, 0, len(mr.Permissions))
		for _, name := range mr.Permissions {
			perms = append(perms, domain.Permission{Name: name})
		}
		roles = append(roles, domain.Role{
			ID:          domain.RoleID(mr.ID),
			Permissions: perms,
		})
	}
	return roles, nil
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{
			"password_hash": hash,
			"updated_at":    time.Now().UTC().Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
