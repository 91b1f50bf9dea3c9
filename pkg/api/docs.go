// Package api serves the read-only status API of LogIndexor.
// @title LogIndexor API
// @version 1.0
// @description Read-only API exposing indexer state and persisted checkpoints
// @contact.name API Support
// @contact.url https://github.com/goran-ethernal/LogIndexor
// @license.name Apache 2.0
// @license.url https://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @basePath /
// @schemes http https
package api
