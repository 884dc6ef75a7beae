// Package diff implements the dataset comparison feature.
//
// It exposes the comparison engine over HTTP: synchronous compares for
// datasets that fit in one request, and background chunked runs whose
// partial results are persisted as binary payloads and merged on read,
// so very large comparisons survive process memory limits.
//
// # Dataset Sources
//
// A comparison request references its two datasets in one of three ways:
//  1. Inline: headers and rows in the request body.
//  2. Object: the name of a CSV object in the configured bucket
//     (fetched, parsed and cached with a TTL).
//  3. Table: a database table read through the schema inspector.
//
// # Components
//
//   - Service: Resolves dataset references and orchestrates the engine,
//     the run store and the result artifacts.
//   - Store: Persists run records and binary-encoded chunk payloads.
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - POST /diff/primary-key : Synchronous comparison joined on key columns.
//   - POST /diff/content : Synchronous comparison paired by row similarity.
//   - POST /diff/chunked : Start a background chunked run (202 + run id).
//   - GET /diff/runs : List runs. GET /diff/runs/:id : Result or status.
//   - GET /diff/runs/:id/binary : Download the encoded result.
//   - DELETE /diff/runs/:id : Remove a run and its artifacts.
//   - GET /diff/datasets : List CSV objects in the bucket.
//   - GET /diff/tables : List database tables.
package diff
