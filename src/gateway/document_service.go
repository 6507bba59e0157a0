// Package gateway issues driver calls against resolved collection
// handles and normalizes the raw results into response envelopes.
package gateway

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"docgate/src/apierror"
	"docgate/src/handles"
	"docgate/src/models"
	"docgate/src/namespace"
)

// DocumentService executes one driver call per operation. Every method
// follows the same shape: validate the payload, resolve the namespace,
// fetch the cached handle, call the store, map the result. The service
// adds no retries and no serialization across requests; two concurrent
// writes race exactly as they would against the store directly.
type DocumentService struct {
	client   *mongo.Client
	resolver *namespace.Resolver
	handles  *handles.Store
}

func NewDocumentService(client *mongo.Client, resolver *namespace.Resolver, store *handles.Store) *DocumentService {
	return &DocumentService{
		client:   client,
		resolver: resolver,
		handles:  store,
	}
}

func (s *DocumentService) collection(fields models.NamespaceFields) (*mongo.Collection, error) {
	ns, err := s.resolver.Resolve(fields.Database, fields.Collection)
	if err != nil {
		return nil, err
	}
	return s.handles.GetOrCreate(ns), nil
}

// InsertOne inserts a single document and reports the id the store
// assigned to it.
func (s *DocumentService) InsertOne(ctx context.Context, req *models.InsertOneRequest) (*models.InsertOneResponse, error) {
	if req.Document == nil {
		return nil, apierror.Validation("document must be provided")
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.InsertOne(ctx, req.Document, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.InsertOneResponse{InsertedID: result.InsertedID}, nil
}

// InsertMany inserts a batch of documents. An empty batch fails
// validation before the namespace is even resolved; the check needs no
// config lookup and no I/O, so it runs first. The returned ids match
// the input document order.
func (s *DocumentService) InsertMany(ctx context.Context, req *models.InsertManyRequest) (*models.InsertManyResponse, error) {
	if len(req.Documents) == 0 {
		return nil, apierror.Validation("documents must not be empty")
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	documents := make([]interface{}, len(req.Documents))
	for i, doc := range req.Documents {
		documents[i] = doc
	}
	result, err := coll.InsertMany(ctx, documents, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.InsertManyResponse{InsertedIDs: models.OrderedInsertedIDs(result)}, nil
}

// FindOne returns the first document matching the filter. No match is
// a not-found failure, not an empty success; the route addresses a
// specific resource, so absence surfaces as 404.
func (s *DocumentService) FindOne(ctx context.Context, req *models.FindOneRequest) (*models.FindOneResponse, error) {
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	var document bson.M
	err = coll.FindOne(ctx, orEmptyFilter(req.Filter), req.Options.Driver()).Decode(&document)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierror.NotFound("document not found")
	}
	if err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.FindOneResponse{Document: document}, nil
}

// FindMany returns every matching document in the order the store
// yields them. Zero matches is an empty success.
func (s *DocumentService) FindMany(ctx context.Context, req *models.FindManyRequest) (*models.FindManyResponse, error) {
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	cursor, err := coll.Find(ctx, orEmptyFilter(req.Filter), req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	documents := make([]bson.M, 0)
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.FindManyResponse{Documents: documents}, nil
}

// UpdateOne applies a partial update to the first match. A filter that
// matched nothing, with no upsert requested and none performed, is
// not-found: updating a specific resource implies the resource exists.
func (s *DocumentService) UpdateOne(ctx context.Context, req *models.UpdateRequest) (*models.UpdateResponse, error) {
	if err := requireFilterAndBody(req.Filter, req.Update, "update"); err != nil {
		return nil, err
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.UpdateOne(ctx, req.Filter, req.Update, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	if missedFilter(result, req.Options.UpsertRequested()) {
		return nil, apierror.NotFound("no documents matched the filter")
	}
	resp := models.NewUpdateResponse(result)
	return &resp, nil
}

// UpdateMany applies a partial update to every match. Bulk updates are
// not resource-identity operations, so zero matches is still a success
// with zeroed counts.
func (s *DocumentService) UpdateMany(ctx context.Context, req *models.UpdateRequest) (*models.UpdateResponse, error) {
	if err := requireFilterAndBody(req.Filter, req.Update, "update"); err != nil {
		return nil, err
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.UpdateMany(ctx, req.Filter, req.Update, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	resp := models.NewUpdateResponse(result)
	return &resp, nil
}

// ReplaceOne swaps the first match for the replacement document, with
// the same not-found policy as UpdateOne.
func (s *DocumentService) ReplaceOne(ctx context.Context, req *models.ReplaceOneRequest) (*models.UpdateResponse, error) {
	if err := requireFilterAndBody(req.Filter, req.Replacement, "replacement"); err != nil {
		return nil, err
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.ReplaceOne(ctx, req.Filter, req.Replacement, req.Options.DriverReplace())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	if missedFilter(result, req.Options.UpsertRequested()) {
		return nil, apierror.NotFound("no documents matched the filter")
	}
	resp := models.NewUpdateResponse(result)
	return &resp, nil
}

// DeleteOne removes the first match; removing nothing is not-found.
func (s *DocumentService) DeleteOne(ctx context.Context, req *models.DeleteRequest) (*models.DeleteResponse, error) {
	if req.Filter == nil {
		return nil, apierror.Validation("filter must be provided")
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.DeleteOne(ctx, req.Filter, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	if result.DeletedCount == 0 {
		return nil, apierror.NotFound("no documents matched the filter")
	}
	return &models.DeleteResponse{DeletedCount: result.DeletedCount}, nil
}

// DeleteMany removes every match and always succeeds, even with a
// deleted count of zero.
func (s *DocumentService) DeleteMany(ctx context.Context, req *models.DeleteRequest) (*models.DeleteResponse, error) {
	if req.Filter == nil {
		return nil, apierror.Validation("filter must be provided")
	}
	coll, err := s.collection(req.NamespaceFields)
	if err != nil {
		return nil, err
	}
	result, err := coll.DeleteMany(ctx, req.Filter, req.Options.Driver())
	if err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.DeleteResponse{DeletedCount: result.DeletedCount}, nil
}

// ListCollections reports the collection names of one database exactly
// as the store returns them: unsorted and undeduplicated. The database
// name must be supplied explicitly; the configured default database
// does not apply here.
func (s *DocumentService) ListCollections(ctx context.Context, database string) (*models.CollectionsResponse, error) {
	database = strings.TrimSpace(database)
	if database == "" {
		return nil, apierror.Validation("database must be provided")
	}
	names, err := s.client.Database(database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, apierror.Driver(err)
	}
	return &models.CollectionsResponse{Collections: names}, nil
}

// missedFilter decides the not-found outcome for the single-resource
// update and replace routes: nothing matched, nothing was upserted and
// the caller did not ask for upsert.
func missedFilter(result *mongo.UpdateResult, upsertRequested bool) bool {
	return result.MatchedCount == 0 && result.UpsertedID == nil && !upsertRequested
}

func requireFilterAndBody(filter, body bson.M, bodyName string) error {
	if filter == nil {
		return apierror.Validation("filter must be provided")
	}
	if body == nil {
		return apierror.Validation(bodyName + " must be provided")
	}
	return nil
}

func orEmptyFilter(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}
