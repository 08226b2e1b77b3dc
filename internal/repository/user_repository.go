package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/otherscovers/otherscovers/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles database operations on the users collection,
// including the array mutations on a user's lending collections.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithField("username", user.Username).Warn("Username already taken")
			return nil, fmt.Errorf("username %q: %w", user.Username, ErrDuplicate)
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), ErrNotFound)
		}
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their unique username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("username %q: %w", username, ErrNotFound)
		}
		logrus.WithFields(logrus.Fields{
			"username": username,
			"error":    err,
		}).Error("Failed to find user by username")
		return nil, fmt.Errorf("failed to find user by username: %v", err)
	}
	return &user, nil
}

// GetUsersByIDs fetches user documents for a list of ObjectIDs.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %v", err)
		}
		users = append(users, user)
	}

	return users, cursor.Err()
}

// UpdateLastActive stamps the user's last activity time.
func (r *UserRepository) UpdateLastActive(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_active": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update last active: %v", err)
	}
	return nil
}

// AddLendingLibraryGame appends a game reference to the user's
// lendingLibraryGames if it is not already there. The duplicate check and the
// append are a single conditional update, so two racing lend calls cannot
// both succeed. Returns false when the reference was already present.
func (r *UserRepository) AddLendingLibraryGame(ctx context.Context, userID, gameID primitive.ObjectID) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "lendingLibraryGames": bson.M{"$ne": gameID}},
		bson.M{
			"$addToSet": bson.M{"lendingLibraryGames": gameID},
			"$set":      bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": userID.Hex(),
			"gameID": gameID.Hex(),
			"error":  err,
		}).Error("Failed to add game to lending library")
		return false, fmt.Errorf("failed to add game to lending library: %v", err)
	}

	if res.MatchedCount == 0 {
		// Either the user does not exist or the game is already listed.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": userID})
		if err != nil {
			return false, fmt.Errorf("failed to check user existence: %v", err)
		}
		if count == 0 {
			return false, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return false, nil
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"gameID": gameID.Hex(),
	}).Info("Game added to lending library")
	return true, nil
}

// RemoveLendingLibraryGame pulls a game reference from the user's
// lendingLibraryGames and returns the updated document. Pulling an absent
// reference is a no-op, not an error.
func (r *UserRepository) RemoveLendingLibraryGame(ctx context.Context, userID, gameID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"lendingLibraryGames": gameID},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		logrus.WithFields(logrus.Fields{
			"userID": userID.Hex(),
			"gameID": gameID.Hex(),
			"error":  err,
		}).Error("Failed to remove game from lending library")
		return nil, fmt.Errorf("failed to remove game from lending library: %v", err)
	}

	return &user, nil
}

// AddBookToLendingLibrary embeds a book copy into the user's lendingLibrary
// and returns the updated document.
func (r *UserRepository) AddBookToLendingLibrary(ctx context.Context, userID primitive.ObjectID, book models.Book) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$push": bson.M{"lendingLibrary": book},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to add book to lending library: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID.Hex(),
		"bookID": book.ID.Hex(),
	}).Info("Book offered for lending")
	return &user, nil
}

// RemoveBookFromLendingLibrary pulls an embedded book copy by its ID and
// returns the updated document. Idempotent like every $pull.
func (r *UserRepository) RemoveBookFromLendingLibrary(ctx context.Context, userID, bookID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"lendingLibrary": bson.M{"_id": bookID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to remove book from lending library: %v", err)
	}

	return &user, nil
}

// AddBorrowedBook embeds a borrowed copy into the user's borrowedBooks.
func (r *UserRepository) AddBorrowedBook(ctx context.Context, userID primitive.ObjectID, book models.Book) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"borrowedBooks": book}},
	)
	if err != nil {
		return fmt.Errorf("failed to add borrowed book: %v", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.Hex(), ErrNotFound)
	}
	return nil
}

// RemoveBorrowedBook pulls a borrowed copy by its book ID.
func (r *UserRepository) RemoveBorrowedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"borrowedBooks": bson.M{"_id": bookID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove borrowed book: %v", err)
	}
	return nil
}

// AddRequestedBook records a pending borrow request reference.
func (r *UserRepository) AddRequestedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"requestedBooks": bookID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add requested book: %v", err)
	}
	return nil
}

// RemoveRequestedBook drops a borrow request reference.
func (r *UserRepository) RemoveRequestedBook(ctx context.Context, userID, bookID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"requestedBooks": bookID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove requested book: %v", err)
	}
	return nil
}

// AddCommunity records community membership on the user document.
func (r *UserRepository) AddCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"communities": communityID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add community to user: %v", err)
	}
	return nil
}

// RemoveCommunity drops community membership from the user document.
func (r *UserRepository) RemoveCommunity(ctx context.Context, userID, communityID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"communities": communityID}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove community from user: %v", err)
	}
	return nil
}
