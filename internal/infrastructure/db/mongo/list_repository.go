package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/todolist/internal/core/domain"
)

const listsCollection = "lists"

// ListRepository stores one document per user in the lists collection.
// Documents carry a version used for conditional saves.
type ListRepository struct {
	coll *mongo.Collection
}

func NewListRepository(db *mongo.Database) *ListRepository {
	return &ListRepository{coll: db.Collection(listsCollection)}
}

type mongoItem struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

type mongoList struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Items     []mongoItem        `bson:"items"`
	Version   int64              `bson:"version"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

// Create inserts list and fills in its ID.
func (r *ListRepository) Create(ctx context.Context, list *domain.List) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoList{
		Name:      list.Name,
		Items:     toMongoItems(list.Items),
		Version:   list.Version,
		CreatedAt: list.CreatedAt.Unix(),
		UpdatedAt: list.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrListExists
		}
		return fmt.Errorf("insert list: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		list.ID = oid.Hex()
	}
	return nil
}

func (r *ListRepository) FindByName(ctx context.Context, name string) (*domain.List, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ml mongoList
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&ml); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListNotFound
		}
		return nil, fmt.Errorf("find list: %w", err)
	}
	return fromMongoList(ml), nil
}

// Save replaces the item sequence if the stored version matches list.Version.
func (r *ListRepository) Save(ctx context.Context, list *domain.List) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"name": list.Name, "version": list.Version}
	update := bson.M{
		"$set": bson.M{
			"items":      toMongoItems(list.Items),
			"updated_at": list.UpdatedAt.Unix(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListConflict
	}
	list.Version++
	return nil
}

// EnsureIndexes creates the unique list name index.
func (r *ListRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// toMongoItems never returns nil so an emptied list is stored as [].
func toMongoItems(items []domain.Item) []mongoItem {
	out := make([]mongoItem, 0, len(items))
	for _, it := range items {
		out = append(out, mongoItem{ID: it.ID, Name: it.Name})
	}
	return out
}

func fromMongoList(ml mongoList) *domain.List {
	items := make([]domain.Item, 0, len(ml.Items))
	for _, it := range ml.Items {
		items = append(items, domain.Item{ID: it.ID, Name: it.Name})
	}
	return &domain.List{
		ID:        ml.ID.Hex(),
		Name:      ml.Name,
		Items:     items,
		Version:   ml.Version,
		CreatedAt: unixToTime(ml.CreatedAt),
		UpdatedAt: unixToTime(ml.UpdatedAt),
	}
}
