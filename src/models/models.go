// Package models defines the request and response envelopes for every
// gateway operation, plus the option payloads that map onto driver
// options. Envelopes are created per request and discarded once the
// response is written.
package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NamespaceFields carries the raw, possibly partial namespace a client
// supplied. Resolution against configured defaults happens later.
type NamespaceFields struct {
	Database   string `json:"database"`
	Collection string `json:"collection"`
}

type InsertOneRequest struct {
	NamespaceFields
	Document bson.M            `json:"document"`
	Options  *InsertOneOptions `json:"options"`
}

type InsertOneResponse struct {
	InsertedID interface{} `json:"inserted_id"`
}

type InsertManyRequest struct {
	NamespaceFields
	Documents []bson.M           `json:"documents"`
	Options   *InsertManyOptions `json:"options"`
}

type InsertManyResponse struct {
	InsertedIDs []interface{} `json:"inserted_ids"`
}

type FindOneRequest struct {
	NamespaceFields
	Filter  bson.M          `json:"filter"`
	Options *FindOneOptions `json:"options"`
}

type FindOneResponse struct {
	Document bson.M `json:"document"`
}

type FindManyRequest struct {
	NamespaceFields
	Filter  bson.M           `json:"filter"`
	Options *FindManyOptions `json:"options"`
}

type FindManyResponse struct {
	Documents []bson.M `json:"documents"`
}

// UpdateRequest serves both update-one and update-many; the operation
// is chosen by the route, not the payload.
type UpdateRequest struct {
	NamespaceFields
	Filter  bson.M         `json:"filter"`
	Update  bson.M         `json:"update"`
	Options *UpdateOptions `json:"options"`
}

type UpdateResponse struct {
	MatchedCount  int64       `json:"matched_count"`
	ModifiedCount int64       `json:"modified_count"`
	UpsertedID    interface{} `json:"upserted_id,omitempty"`
}

type ReplaceOneRequest struct {
	NamespaceFields
	Filter      bson.M         `json:"filter"`
	Replacement bson.M         `json:"replacement"`
	Options     *UpdateOptions `json:"options"`
}

// DeleteRequest serves both delete-one and delete-many.
type DeleteRequest struct {
	NamespaceFields
	Filter  bson.M         `json:"filter"`
	Options *DeleteOptions `json:"options"`
}

type DeleteResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

type CollectionsResponse struct {
	Collections []string `json:"collections"`
}

// InsertOneOptions is the client-facing subset of driver insert options.
type InsertOneOptions struct {
	BypassDocumentValidation *bool `json:"bypass_document_validation"`
}

func (o *InsertOneOptions) Driver() *options.InsertOneOptions {
	opts := options.InsertOne()
	if o == nil {
		return opts
	}
	if o.BypassDocumentValidation != nil {
		opts.SetBypassDocumentValidation(*o.BypassDocumentValidation)
	}
	return opts
}

type InsertManyOptions struct {
	BypassDocumentValidation *bool `json:"bypass_document_validation"`
	Ordered                  *bool `json:"ordered"`
}

func (o *InsertManyOptions) Driver() *options.InsertManyOptions {
	opts := options.InsertMany()
	if o == nil {
		return opts
	}
	if o.BypassDocumentValidation != nil {
		opts.SetBypassDocumentValidation(*o.BypassDocumentValidation)
	}
	if o.Ordered != nil {
		opts.SetOrdered(*o.Ordered)
	}
	return opts
}

type FindOneOptions struct {
	Skip       *int64 `json:"skip"`
	Sort       bson.M `json:"sort"`
	Projection bson.M `json:"projection"`
}

func (o *FindOneOptions) Driver() *options.FindOneOptions {
	opts := options.FindOne()
	if o == nil {
		return opts
	}
	if o.Skip != nil {
		opts.SetSkip(*o.Skip)
	}
	if o.Sort != nil {
		opts.SetSort(o.Sort)
	}
	if o.Projection != nil {
		opts.SetProjection(o.Projection)
	}
	return opts
}

type FindManyOptions struct {
	Limit      *int64 `json:"limit"`
	Skip       *int64 `json:"skip"`
	Sort       bson.M `json:"sort"`
	Projection bson.M `json:"projection"`
}

func (o *FindManyOptions) Driver() *options.FindOptions {
	opts := options.Find()
	if o == nil {
		return opts
	}
	if o.Limit != nil {
		opts.SetLimit(*o.Limit)
	}
	if o.Skip != nil {
		opts.SetSkip(*o.Skip)
	}
	if o.Sort != nil {
		opts.SetSort(o.Sort)
	}
	if o.Projection != nil {
		opts.SetProjection(o.Projection)
	}
	return opts
}

// UpdateOptions covers update-one, update-many and replace-one; upsert
// is the only knob exposed because it also changes the not-found
// policy on the single-resource routes.
type UpdateOptions struct {
	Upsert *bool `json:"upsert"`
}

// UpsertRequested reports whether the caller asked for upsert, treating
// a nil options payload as false.
func (o *UpdateOptions) UpsertRequested() bool {
	return o != nil && o.Upsert != nil && *o.Upsert
}

func (o *UpdateOptions) Driver() *options.UpdateOptions {
	opts := options.Update()
	if o.UpsertRequested() {
		opts.SetUpsert(true)
	}
	return opts
}

func (o *UpdateOptions) DriverReplace() *options.ReplaceOptions {
	opts := options.Replace()
	if o.UpsertRequested() {
		opts.SetUpsert(true)
	}
	return opts
}

type DeleteOptions struct {
	Comment *string `json:"comment"`
}

func (o *DeleteOptions) Driver() *options.DeleteOptions {
	opts := options.Delete()
	if o == nil {
		return opts
	}
	if o.Comment != nil {
		opts.SetComment(*o.Comment)
	}
	return opts
}

// OrderedInsertedIDs normalizes the driver's insert-many result into a
// list whose length and order match the input documents. The driver
// reports ids indexed by input position; the copy pins that contract
// down independently of the result type's internals.
func OrderedInsertedIDs(result *mongo.InsertManyResult) []interface{} {
	ids := make([]interface{}, len(result.InsertedIDs))
	copy(ids, result.InsertedIDs)
	return ids
}

// NewUpdateResponse maps a driver update/replace result onto the wire
// envelope. UpsertedID stays nil (and thus absent from the JSON body)
// unless an upsert actually happened.
func NewUpdateResponse(result *mongo.UpdateResult) UpdateResponse {
	resp := UpdateResponse{
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
	}
	if result.UpsertedID != nil {
		resp.UpsertedID = result.UpsertedID
	}
	return resp
}
