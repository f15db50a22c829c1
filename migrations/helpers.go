package migrations

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// isIndexExistsError checks if error is due to index already existing
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && (cmdErr.Name == "IndexOptionsConflict" || cmdErr.Name == "IndexKeySpecsConflict") {
		return true
	}
	return strings.Contains(err.Error(), "already exists")
}

// isNamespaceNotFound reports a drop on a collection that does not exist
func isNamespaceNotFound(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Name == "NamespaceNotFound"
}
