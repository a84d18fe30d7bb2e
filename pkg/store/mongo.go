package store

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	etymio "github.com/matzehuels/etymograph/pkg/io"
)

const termsCollection = "terms"

// termDoc is the stored document. The term itself stays an opaque JSON
// string so nested references decode exactly like the other backends.
type termDoc struct {
	Seq       int    `bson:"seq"`
	TermID    string `bson:"term_id"`
	Term      string `bson:"term"`
	TermLower string `bson:"term_lower"`
	Lang      string `bson:"lang"`
	Data      string `bson:"data"`
}

// MongoStore keeps one document per term.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and prepares the terms collection of database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongo")
	}
	coll := client.Database(database).Collection(termsCollection)
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "term_id", Value: 1}, {Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "term_lower", Value: 1}, {Key: "lang", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create indexes")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Save replaces the collection contents.
func (s *MongoStore) Save(ctx context.Context, terms []*etym.Term) error {
	docs := make([]any, 0, len(terms))
	for i, t := range terms {
		data, err := etymio.MarshalTerm(t)
		if err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "encode term %s", t.ID)
		}
		docs = append(docs, termDoc{
			Seq:       i,
			TermID:    t.ID,
			Term:      t.Term,
			TermLower: strings.ToLower(t.Term),
			Lang:      t.Lang,
			Data:      string(data),
		})
	}
	// TODO: swap in a staging collection and rename it once the insert
	// succeeds, so readers never see a half-written forest.
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clear terms")
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert %d terms", len(docs))
	}
	return nil
}

// Load returns all terms in saved order.
func (s *MongoStore) Load(ctx context.Context) ([]*etym.Term, error) {
	return s.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
}

// Get returns the first term with id, falling back to a scan of the forest
// for ancestor-only ids.
func (s *MongoStore) Get(ctx context.Context, id string) (*etym.Term, error) {
	var doc termDoc
	err := s.coll.FindOne(ctx, bson.M{"term_id": id},
		options.FindOne().SetSort(bson.D{{Key: "seq", Value: 1}})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		all, err := s.Load(ctx)
		if err != nil {
			return nil, err
		}
		return nested(all, id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "get term %s", id)
	}
	return decodeDoc(doc)
}

// Find matches term text case-insensitively.
func (s *MongoStore) Find(ctx context.Context, text, lang string) ([]*etym.Term, error) {
	filter := bson.M{"term_lower": strings.ToLower(text)}
	if lang != "" {
		filter["lang"] = lang
	}
	return s.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
}

func (s *MongoStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*etym.Term, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "find terms")
	}
	defer cur.Close(ctx)

	terms := []*etym.Term{}
	for cur.Next(ctx) {
		var doc termDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode document")
		}
		t, err := decodeDoc(doc)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "iterate terms")
	}
	return terms, nil
}

func decodeDoc(doc termDoc) (*etym.Term, error) {
	t, err := etymio.UnmarshalTerm([]byte(doc.Data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode term %s", doc.TermID)
	}
	return t, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
