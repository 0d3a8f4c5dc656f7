// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - RayID: assigns a request id to every incoming request, stores it in the
//     fiber locals and echoes it in the X-Ray-ID response header. Catalog
//     handlers forward it to the remote store as X-Request-ID.
//
// The admin API has no authentication layer.
package middleware
