package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guardpost/access-api/internal/core/domain"
)

// demoPasswordHash is bcrypt("101010"), scheme-tagged. All demo users share it.
const demoPasswordHash = "{bcrypt}$2a$10$9ZIHenFYWqw8do7UoTo29esmR4E45nORhHWZWufhwTWA/C/MhBZQO"

// Seed provisions the fixed demo graph: five permissions, the four roles of
// the closed enumeration, and one user per role. Upserts keyed on the unique
// identifiers make it idempotent, so it can run on every startup. It also
// creates the unique indexes the data-model invariants rely on.
func Seed(ctx context.Context, db *mongo.Database) error {
	if err := ensureIndexes(ctx, db); err != nil {
		return err
	}

	permissions := []string{"CREATE", "READ", "UPDATE", "DELETE", "REFACTOR"}
	for _, name := range permissions {
		if err := upsert(ctx, db.Collection(permissionsCollection),
			bson.M{"_id": name},
			bson.M{"_id": name},
		); err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
	}

	roles := map[domain.RoleID][]string{
		domain.RoleAdmin:     {"CREATE", "READ", "UPDATE", "DELETE"},
		domain.RoleUser:      {"CREATE", "READ"},
		domain.RoleInvited:   {"READ"},
		domain.RoleDeveloper: {"CREATE", "READ", "UPDATE", "DELETE", "REFACTOR"},
	}
	for id, perms := range roles {
		if err := upsert(ctx, db.Collection(rolesCollection),
			bson.M{"_id": string(id)},
			bson.M{"_id": string(id), "permissions": perms},
		); err != nil {
			return fmt.Errorf("seed role %s: %w", id, err)
		}
	}

	users := map[string]domain.RoleID{
		"fernando": domain.RoleAdmin,
		"hugo":     domain.RoleUser,
		"brian":    domain.RoleDeveloper,
		"gissy":    domain.RoleInvited,
	}
	now := time.Now().UTC().Unix()
	for username, role := range users {
		if err := upsert(ctx, db.Collection(usersCollection),
			bson.M{"username": username},
			bson.M{
				"username":                username,
				"password_hash":           demoPasswordHash,
				"enabled":                 true,
				"account_non_expired":     true,
				"account_non_locked":      true,
				"credentials_non_expired": true,
				"roles":                   []string{string(role)},
				"created_at":              now,
				"updated_at":              now,
			},
		); err != nil {
			return fmt.Errorf("seed user %s: %w", username, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure username index: %w", err)
	}
	return nil
}

// upsert replaces the matched document or inserts it when absent. Existing
// users keep their current password hash so background rehashes survive
// restarts.
func upsert(ctx context.Context, coll *mongo.Collection, filter, doc bson.M) error {
	if _, hasHash := doc["password_hash"]; hasHash {
		update := bson.M{
			"$setOnInsert": bson.M{"password_hash": doc["password_hash"], "created_at": doc["created_at"]},
		}
		set := bson.M{}
		for k, v := range doc {
			if k == "password_hash" || k == "created_at" {
				continue
			}
			set[k] = v
		}
		update["$set"] = set
		_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		return err
	}
	_, err := coll.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true))
	return err
}
