// Package httpapi serves the retrieval engine over a small JSON REST API
// built on fiber.
//
// Routes:
//
//	GET    /check/health
//	PUT    /api/v1/resources/:type/:id          index a note, body {"title", "text"}
//	DELETE /api/v1/resources/:type/:id          remove a note and its records
//	GET    /api/v1/resources/:type/:id/related  similar notes
//	GET    /api/v1/search?q=&limit=             hybrid search
package httpapi
