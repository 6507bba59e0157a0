// Package namespace resolves the (database, collection) pair every
// document operation targets.
package namespace

import (
	"strings"

	"docgate/src/apierror"
	"docgate/src/settings"
)

// Namespace identifies where an operation applies. After resolution
// both fields are non-empty, trimmed strings; two namespaces are the
// same exactly when both fields compare equal.
type Namespace struct {
	Database   string
	Collection string
}

func (n Namespace) String() string {
	return n.Database + "." + n.Collection
}

// Resolver completes partially specified namespaces from the configured
// defaults. It holds no mutable state; Resolve is a pure function of
// its inputs and the defaults captured at construction.
type Resolver struct {
	defaultDatabase   string
	defaultCollection string
}

func NewResolver(s *settings.Settings) *Resolver {
	return &Resolver{
		defaultDatabase:   s.DefaultDatabase,
		defaultCollection: s.DefaultCollection,
	}
}

// Resolve trims both inputs and substitutes the configured default for
// any empty field. A field that is empty after trimming with no default
// configured fails validation. No further legality checks happen here;
// the backing store owns naming rules.
func (r *Resolver) Resolve(database, collection string) (Namespace, error) {
	database = strings.TrimSpace(database)
	if database == "" {
		database = r.defaultDatabase
	}
	if database == "" {
		return Namespace{}, apierror.Validation("database must be provided")
	}

	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = r.defaultCollection
	}
	if collection == "" {
		return Namespace{}, apierror.Validation("collection must be provided")
	}

	return Namespace{Database: database, Collection: collection}, nil
}
