// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings such as the listen
// port, the API key and the request body limit.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server
// settings and by the serve command when constructing the Fiber application.
package server
