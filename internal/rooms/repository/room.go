package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roomly/pkg/config"
	"roomly/pkg/model"
)

const CollectionName = "Meeting_rooms"

var (
	ErrNotFound  = errors.New("meeting room not found")
	ErrInvalidID = errors.New("invalid meeting room ID format")
)

type RoomRepository interface {
	Create(ctx context.Context, room *model.MeetingRoom) error
	FindByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	FindByName(ctx context.Context, name string) (*model.MeetingRoom, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.MeetingRoom, error)
	FindIDs(ctx context.Context, namePattern, locationPattern string) ([]string, error)
	List(ctx context.Context, filter model.RoomListFilter, skip, limit int64) ([]*model.MeetingRoom, error)
	CountList(ctx context.Context, filter model.RoomListFilter) (int64, error)
	Update(ctx context.Context, room *model.MeetingRoom) error
	Delete(ctx context.Context, id string) error
}

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomRepository(cfg *config.Config) RoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoRoomRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRoomRepository) Create(ctx context.Context, room *model.MeetingRoom) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	room.CreatedAt = now
	room.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, room)
	if err != nil {
		return fmt.Errorf("failed to create meeting room: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		room.ID = oid.Hex()
	}
	return nil
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var room model.MeetingRoom
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindByName(ctx context.Context, name string) (*model.MeetingRoom, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var room model.MeetingRoom
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find meeting room by name: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.MeetingRoom, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.MeetingRoom
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode meeting rooms: %w", err)
	}
	return rooms, nil
}

// FindIDs resolves name/location substring patterns to room ids for the
// booking search. Patterns must already be regex-escaped by the caller.
func (r *mongoRoomRepository) FindIDs(ctx context.Context, namePattern, locationPattern string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if namePattern != "" {
		filter["name"] = bson.M{"$regex": namePattern, "$options": "i"}
	}
	if locationPattern != "" {
		filter["location"] = bson.M{"$regex": locationPattern, "$options": "i"}
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room filter: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode room ids: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID.Hex())
	}
	return ids, nil
}

func (r *mongoRoomRepository) List(ctx context.Context, filter model.RoomListFilter, skip, limit int64) ([]*model.MeetingRoom, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, buildListFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.MeetingRoom
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode meeting rooms: %w", err)
	}
	return rooms, nil
}

func (r *mongoRoomRepository) CountList(ctx context.Context, filter model.RoomListFilter) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count meeting rooms: %w", err)
	}
	return count, nil
}

func buildListFilter(filter model.RoomListFilter) bson.M {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": filter.Name, "$options": "i"}
	}
	if filter.Equipment != "" {
		query["equipment"] = bson.M{"$regex": filter.Equipment, "$options": "i"}
	}
	if filter.Capacity > 0 {
		query["capacity"] = bson.M{"$gte": filter.Capacity}
	}
	return query
}

func (r *mongoRoomRepository) Update(ctx context.Context, room *model.MeetingRoom) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(room.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, room.ID)
	}

	room.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{
		"$set": bson.M{
			"name":        room.Name,
			"capacity":    room.Capacity,
			"equipment":   room.Equipment,
			"location":    room.Location,
			"description": room.Description,
			"updated_at":  room.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update meeting room: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRoomRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete meeting room: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
