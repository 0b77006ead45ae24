package mongodb

import (
	"context"

	"trackserver/internal/shared/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Test doubles for CollectionInterface and its result types. The fakes record
// the filters and updates they receive and replay canned documents through the
// bson codec, so repository tests run without a Mongo server.

type noopLogger struct{}

func (noopLogger) Debug(args ...interface{})                          {}
func (noopLogger) Info(args ...interface{})                           {}
func (noopLogger) Warn(args ...interface{})                           {}
func (noopLogger) Error(args ...interface{})                          {}
func (noopLogger) Fatal(args ...interface{})                          {}
func (noopLogger) Debugf(format string, args ...interface{})          {}
func (noopLogger) Infof(format string, args ...interface{})           {}
func (noopLogger) Warnf(format string, args ...interface{})           {}
func (noopLogger) Errorf(format string, args ...interface{})          {}
func (noopLogger) Fatalf(format string, args ...interface{})          {}
func (n noopLogger) WithFields(map[string]interface{}) logger.Logger  { return n }
func (n noopLogger) WithContext(context.Context) logger.Logger        { return n }
func (n noopLogger) WithComponent(string) logger.Logger               { return n }

// decodeInto round-trips a document through bson to fill the target.
func decodeInto(doc interface{}, val interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, val)
}

type fakeSingleResult struct {
	doc interface{}
	err error
}

func (r *fakeSingleResult) Decode(v interface{}) error {
	if r.err != nil {
		return r.err
	}
	return decodeInto(r.doc, v)
}

type fakeCursor struct {
	docs []interface{}
	idx  int
	err  error
}

func (c *fakeCursor) Next(ctx context.Context) bool {
	if c.idx >= len(c.docs) {
		return false
	}
	c.idx++
	return true
}

func (c *fakeCursor) Decode(val interface{}) error {
	return decodeInto(c.docs[c.idx-1], val)
}

func (c *fakeCursor) Close(ctx context.Context) error { return nil }
func (c *fakeCursor) Err() error                      { return c.err }

type fakeUpdateResult struct {
	matched  int64
	modified int64
}

func (r *fakeUpdateResult) Matched() int64  { return r.matched }
func (r *fakeUpdateResult) Modified() int64 { return r.modified }

type fakeDeleteResult struct{ deleted int64 }

func (r *fakeDeleteResult) Deleted() int64 { return r.deleted }

// fakeCollection implements CollectionInterface with canned responses.
type fakeCollection struct {
	lastFilter   interface{}
	lastUpdate   interface{}
	lastPipeline interface{}
	lastField    string
	lastFindOpts []*options.FindOptions

	findOneDoc interface{}
	findOneErr error

	findDocs      []interface{}
	findErr       error
	aggregateDocs []interface{}
	aggregateErr  error

	distinctValues map[string][]interface{}
	distinctErr    error

	count    int64
	countErr error

	insertErr error

	updateMatched  int64
	updateModified int64
	updateErr      error

	deleteCount int64
	deleteErr   error
}

var _ CollectionInterface = (*fakeCollection)(nil)

func (f *fakeCollection) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	f.lastFilter = filter
	return f.count, f.countErr
}

func (f *fakeCollection) InsertOne(ctx context.Context, doc interface{}) (interface{}, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	return "inserted", nil
}

func (f *fakeCollection) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) SingleResultInterface {
	f.lastFilter = filter
	if f.findOneErr != nil {
		return &fakeSingleResult{err: f.findOneErr}
	}
	if f.findOneDoc == nil {
		return &fakeSingleResult{err: mongo.ErrNoDocuments}
	}
	return &fakeSingleResult{doc: f.findOneDoc}
}

func (f *fakeCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (UpdateResultInterface, error) {
	f.lastFilter = filter
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &fakeUpdateResult{matched: f.updateMatched, modified: f.updateModified}, nil
}

func (f *fakeCollection) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (UpdateResultInterface, error) {
	return f.UpdateOne(ctx, filter, update)
}

func (f *fakeCollection) DeleteOne(ctx context.Context, filter interface{}) (DeleteResultInterface, error) {
	f.lastFilter = filter
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return &fakeDeleteResult{deleted: f.deleteCount}, nil
}

func (f *fakeCollection) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (CursorInterface, error) {
	f.lastFilter = filter
	f.lastFindOpts = opts
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &fakeCursor{docs: f.findDocs}, nil
}

func (f *fakeCollection) Aggregate(ctx context.Context, pipeline interface{}, opts ...*options.AggregateOptions) (CursorInterface, error) {
	f.lastPipeline = pipeline
	if f.aggregateErr != nil {
		return nil, f.aggregateErr
	}
	return &fakeCursor{docs: f.aggregateDocs}, nil
}

func (f *fakeCollection) Distinct(ctx context.Context, fieldName string, filter interface{}) ([]interface{}, error) {
	f.lastField = fieldName
	f.lastFilter = filter
	if f.distinctErr != nil {
		return nil, f.distinctErr
	}
	return f.distinctValues[fieldName], nil
}
