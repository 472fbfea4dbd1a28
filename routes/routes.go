package routes

// Routes package wires all routing for the Address Corrector Service
//
// Layout:
// - api.go: API routes (core endpoints + /v1/admin/*)
// - web.go: Web routes (/, /docs)
// - routes.go: package doc
//
// Usage:
// routes.SetupAllRoutes(router, addressController, adminController)
