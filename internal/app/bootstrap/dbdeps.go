// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. The Shutdown
// hook closes what it holds.
type DBDeps struct {
	// Mongo is the shared, lazily connected MongoDB handle.
	Mongo *mongoconn.Connector

	// CMS is the headless CMS client, or cms.Disabled when none is configured.
	CMS cms.Source
}
