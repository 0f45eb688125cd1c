package book

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the collection holding book documents.
const CollectionName = "books"

type mongoBook struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Author        string             `bson:"author"`
	PublishedDate time.Time          `bson:"publishedDate"`
	ISBN          string             `bson:"ISBN"`
	CoverImage    string             `bson:"coverImage"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d mongoBook) toBook() Book {
	return Book{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Author:        d.Author,
		PublishedDate: d.PublishedDate.UTC(),
		ISBN:          d.ISBN,
		CoverImage:    d.CoverImage,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// MongoRepo stores books as documents. Timestamps are set here because the
// server does not maintain them.
type MongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

func NewMongoRepo(db *mongo.Database, timeout time.Duration) *MongoRepo {
	return &MongoRepo{
		coll:    db.Collection(CollectionName),
		timeout: timeout,
		now:     time.Now,
	}
}

func (r *MongoRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// timestamp returns the current time at BSON date precision.
func (r *MongoRepo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// EnsureIndexes creates the unique ISBN index if it does not exist yet.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.coll.Indexes().CreateOne(timeoutCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ISBN", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("ISBN_1"),
	})
	return err
}

func (r *MongoRepo) Create(ctx context.Context, b Book) (Book, error) {
	now := r.timestamp()
	doc := mongoBook{
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		ISBN:          b.ISBN,
		CoverImage:    b.CoverImage,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.InsertOne(timeoutCtx, doc)
	if err != nil {
		return Book{}, translateMongoError(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return Book{}, errors.New("unexpected inserted id type")
	}
	doc.ID = oid
	return doc.toBook(), nil
}

func (r *MongoRepo) List(ctx context.Context) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	cur, err := r.coll.Find(timeoutCtx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []mongoBook
	if err := cur.All(timeoutCtx, &docs); err != nil {
		return nil, err
	}
	out := make([]Book, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toBook())
	}
	return out, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id string) (Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrInvalidID
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var doc mongoBook
	if err := r.coll.FindOne(timeoutCtx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return Book{}, translateMongoError(err)
	}
	return doc.toBook(), nil
}

func (r *MongoRepo) Update(ctx context.Context, id string, ch Changes) (Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Book{}, ErrInvalidID
	}

	set := bson.M{"updatedAt": r.timestamp()}
	if ch.Title != nil {
		set["title"] = *ch.Title
	}
	if ch.Author != nil {
		set["author"] = *ch.Author
	}
	if ch.PublishedDate != nil {
		set["publishedDate"] = *ch.PublishedDate
	}
	if ch.ISBN != nil {
		set["ISBN"] = *ch.ISBN
	}
	if ch.CoverImage != nil {
		set["coverImage"] = *ch.CoverImage
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var doc mongoBook
	err = r.coll.FindOneAndUpdate(timeoutCtx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return Book{}, translateMongoError(err)
	}
	return doc.toBook(), nil
}

func (r *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.coll.DeleteOne(timeoutCtx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.coll.Database().Client().Ping(timeoutCtx, nil)
}

func translateMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateISBN
	}
	return err
}
