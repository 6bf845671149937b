package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	InteractionsDbName = "citypulse"
	LikesColName       = "event_likes"
	AttendeesColName   = "event_attendees"
	CommentsColName    = "event_comments"
)

const (
	AttendStatusGoing      = "going"
	AttendStatusInterested = "interested"
)

type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	EventID   uuid.UUID          `bson:"event_id" json:"event_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Attendance struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	EventID   uuid.UUID          `bson:"event_id" json:"event_id"`
	Status    string             `bson:"status" json:"status"` // "going" or "interested"
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type Attendee struct {
	UserID uuid.UUID `bson:"user_id" json:"user_id"`
	Status string    `bson:"status" json:"status"`
}

// Comment doubles as a lobby chat message; both live in the same collection.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   uuid.UUID          `bson:"event_id" json:"event_id"`
	UserID    uuid.UUID          `bson:"user_id" json:"user_id"`
	Content   string             `bson:"content" json:"content" validate:"required,max=1000"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type InteractionsRepo interface {
	ToggleLike(ctx context.Context, userId, eventId uuid.UUID) (bool, int, error)
	MarkAttendance(ctx context.Context, userId, eventId uuid.UUID, status string) (int, error)
	ListAttendees(ctx context.Context, eventId uuid.UUID) ([]Attendee, error)
	CountsFor(ctx context.Context, eventIds []uuid.UUID) (map[uuid.UUID]EngagementCounts, error)
	AddComment(ctx context.Context, comment *Comment) (*Comment, error)
	ListComments(ctx context.Context, eventId uuid.UUID, limit int) ([]*Comment, error)
}

func (mdb *MongodbRepo) ToggleLike(ctx context.Context, userId, eventId uuid.UUID) (bool, int, error) {
	col, err := mdb.GetCollection(ctx, InteractionsDbName, LikesColName)
	if err != nil {
		return false, 0, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"user_id": userId, "event_id": eventId}

	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return false, 0, fmt.Errorf("error removing like: %v", err)
	}

	liked := false
	if res.DeletedCount == 0 {
		// Nothing to remove: this is a like, not an unlike.
		_, err = col.InsertOne(ctx, Like{
			UserID:    userId,
			EventID:   eventId,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return false, 0, fmt.Errorf("error inserting like: %v", err)
		}
		liked = true
	}

	count, err := col.CountDocuments(ctx, bson.M{"event_id": eventId})
	if err != nil {
		return liked, 0, fmt.Errorf("error counting likes: %v", err)
	}

	return liked, int(count), nil
}

func (mdb *MongodbRepo) MarkAttendance(ctx context.Context, userId, eventId uuid.UUID, status string) (int, error) {
	col, err := mdb.GetCollection(ctx, InteractionsDbName, AttendeesColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"user_id": userId, "event_id": eventId}
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"user_id":  userId,
			"event_id": eventId,
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, filter, update, opts); err != nil {
		return 0, fmt.Errorf("error upserting attendance: %v", err)
	}

	// Both "going" and "interested" count toward the tally.
	count, err := col.CountDocuments(ctx, bson.M{"event_id": eventId})
	if err != nil {
		return 0, fmt.Errorf("error counting attendees: %v", err)
	}

	return int(count), nil
}

func (mdb *MongodbRepo) ListAttendees(ctx context.Context, eventId uuid.UUID) ([]Attendee, error) {
	col, err := mdb.GetCollection(ctx, InteractionsDbName, AttendeesColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	cursor, err := col.Find(ctx, bson.M{"event_id": eventId})
	if err != nil {
		return nil, fmt.Errorf("error finding attendees: %v", err)
	}
	defer cursor.Close(ctx)

	attendees := []Attendee{}
	for cursor.Next(ctx) {
		var a Attendee
		if err := cursor.Decode(&a); err != nil {
			return nil, fmt.Errorf("error decoding attendee: %v", err)
		}
		attendees = append(attendees, a)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return attendees, nil
}

// CountsFor returns like/attendee tallies for a batch of event ids in two
// grouped aggregations total, never one round-trip per event. Events with no
// interactions come back as zero entries in the map.
func (mdb *MongodbRepo) CountsFor(ctx context.Context, eventIds []uuid.UUID) (map[uuid.UUID]EngagementCounts, error) {
	counts := make(map[uuid.UUID]EngagementCounts, len(eventIds))
	for _, id := range eventIds {
		counts[id] = EngagementCounts{}
	}
	if len(eventIds) == 0 {
		return counts, nil
	}

	likes, err := mdb.groupedCounts(ctx, LikesColName, eventIds)
	if err != nil {
		return nil, fmt.Errorf("error aggregating like counts: %v", err)
	}
	attendees, err := mdb.groupedCounts(ctx, AttendeesColName, eventIds)
	if err != nil {
		return nil, fmt.Errorf("error aggregating attendee counts: %v", err)
	}

	for id, n := range likes {
		c := counts[id]
		c.LikeCount = n
		counts[id] = c
	}
	for id, n := range attendees {
		c := counts[id]
		c.AttendeeCount = n
		counts[id] = c
	}

	return counts, nil
}

func (mdb *MongodbRepo) groupedCounts(ctx context.Context, colName string, eventIds []uuid.UUID) (map[uuid.UUID]int, error) {
	col, err := mdb.GetCollection(ctx, InteractionsDbName, colName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"event_id": bson.M{"$in": eventIds}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$event_id", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := make(map[uuid.UUID]int)
	for cursor.Next(ctx) {
		var row struct {
			EventID uuid.UUID `bson:"_id"`
			Count   int       `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		out[row.EventID] = row.Count
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Comment) BeforeCreate() error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	return nil
}

func (mdb *MongodbRepo) AddComment(ctx context.Context, comment *Comment) (*Comment, error) {
	if err := comment.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare comment: %v", err)
	}

	col, err := mdb.GetCollection(ctx, InteractionsDbName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	if _, err := col.InsertOne(ctx, comment); err != nil {
		return nil, fmt.Errorf("error inserting comment: %v", err)
	}

	return comment, nil
}

func (mdb *MongodbRepo) ListComments(ctx context.Context, eventId uuid.UUID, limit int) ([]*Comment, error) {
	col, err := mdb.GetCollection(ctx, InteractionsDbName, CommentsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"event_id": eventId}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding comments: %v", err)
	}
	defer cursor.Close(ctx)

	comments := []*Comment{}
	for cursor.Next(ctx) {
		var c Comment
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("error decoding comment: %v", err)
		}
		comments = append(comments, &c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return comments, nil
}
